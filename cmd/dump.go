package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ichaly/introspect/gql"
	"github.com/ichaly/introspect/log"
	"github.com/ichaly/introspect/utl"
	"github.com/spf13/cobra"
)

const (
	schemaFlag = "schema"
	queryFlag  = "query"
	prettyFlag = "pretty"
)

// dumpCmd 离线执行自省查询，默认输出完整的自省结果
var dumpCmd = &cobra.Command{
	Use:     "dump",
	Aliases: []string{"introspect"},
	Short:   "Print introspection result of a schema file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, _ := cmd.Flags().GetString(schemaFlag)
		queryFile, _ := cmd.Flags().GetString(queryFlag)
		pretty, _ := cmd.Flags().GetBool(prettyFlag)

		log.SetLevel(log.WarnLevel)
		r, err := gql.LoadRegistry(schema)
		if err != nil {
			return err
		}

		req := gql.Request{Query: gql.IntrospectionQuery}
		if queryFile != "" {
			data, err := os.ReadFile(queryFile)
			if err != nil {
				return fmt.Errorf("读取查询文件失败: %w", err)
			}
			req.Query = string(data)
		}

		res := gql.NewExecutor(r, nil).Execute(context.Background(), req)
		var out []byte
		if pretty {
			out, err = utl.MarshalIndent(res, "", "  ")
		} else {
			out, err = utl.Marshal(res)
		}
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(out)); err != nil {
			return err
		}
		if len(res.Errors) > 0 {
			return errors.New(res.Errors[0].Message)
		}
		return nil
	},
}

func init() {
	dumpCmd.Flags().StringP(schemaFlag, "f", "", "schema file")
	dumpCmd.Flags().StringP(queryFlag, "q", "", "query file, defaults to the full introspection query")
	dumpCmd.Flags().BoolP(prettyFlag, "p", false, "indent output")
	_ = dumpCmd.MarkFlagRequired(schemaFlag)
}
