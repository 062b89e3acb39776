package gql

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ichaly/introspect/std"
)

// Handler 以fiber插件形式提供/graphql端点，POST读取JSON请求体，GET读取查询参数
type Handler struct {
	executor *Executor
}

func NewHandler(e *Executor) *Handler {
	return &Handler{executor: e}
}

func (my *Handler) Base() string {
	return "/graphql"
}

func (my *Handler) Init(r fiber.Router) {
	r.Post("/", std.WrapHandler(my.post))
	r.Get("/", std.WrapHandler(my.get))
}

func (my *Handler) post(c *fiber.Ctx) (any, error) {
	var req Request
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return nil, badRequest("请求体不是合法的JSON: " + err.Error())
	}
	return my.serve(c, req)
}

func (my *Handler) get(c *fiber.Ctx) (any, error) {
	req := Request{Query: c.Query("query"), OperationName: c.Query("operationName")}
	if vars := c.Query("variables"); vars != "" {
		if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
			return nil, badRequest("variables不是合法的JSON对象: " + err.Error())
		}
	}
	return my.serve(c, req)
}

func (my *Handler) serve(c *fiber.Ctx, req Request) (any, error) {
	if req.Query == "" {
		return nil, badRequest("缺少query")
	}
	return my.executor.Execute(c.UserContext(), req), nil
}
