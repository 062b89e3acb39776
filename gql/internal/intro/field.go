package intro

// 自省元类型名称
const (
	TYPE_QUERY        = "Query"
	TYPE_MUTATION     = "Mutation"
	TYPE_SUBSCRIPTION = "Subscription"

	META_SCHEMA      = "__Schema"
	META_TYPE        = "__Type"
	META_FIELD       = "__Field"
	META_INPUT_VALUE = "__InputValue"
	META_ENUM_VALUE  = "__EnumValue"
	META_DIRECTIVE   = "__Directive"
)

// Field 自省字段枚举，每个元类型上需要解析器参与的字段各占一项
type Field uint8

const (
	FieldUnknown Field = iota

	QuerySchema
	QueryType

	SchemaTypes
	SchemaQueryType
	SchemaMutationType
	SchemaSubscriptionType
	SchemaDirectives

	TypeFields
	TypeInterfaces
	TypePossibleTypes
	TypeEnumValues
	TypeInputFields
	TypeOfType

	FieldArgs
	FieldType

	InputValueType

	DirectiveArgs
)

type fieldKey struct {
	typeName  string
	fieldName string
}

type fieldInfo struct {
	key    fieldKey
	plural bool
}

var (
	fieldInfos = map[Field]fieldInfo{
		QuerySchema: {fieldKey{TYPE_QUERY, "__schema"}, false},
		QueryType:   {fieldKey{TYPE_QUERY, "__type"}, false},

		SchemaTypes:            {fieldKey{META_SCHEMA, "types"}, true},
		SchemaQueryType:        {fieldKey{META_SCHEMA, "queryType"}, false},
		SchemaMutationType:     {fieldKey{META_SCHEMA, "mutationType"}, false},
		SchemaSubscriptionType: {fieldKey{META_SCHEMA, "subscriptionType"}, false},
		SchemaDirectives:       {fieldKey{META_SCHEMA, "directives"}, true},

		TypeFields:        {fieldKey{META_TYPE, "fields"}, true},
		TypeInterfaces:    {fieldKey{META_TYPE, "interfaces"}, true},
		TypePossibleTypes: {fieldKey{META_TYPE, "possibleTypes"}, true},
		TypeEnumValues:    {fieldKey{META_TYPE, "enumValues"}, true},
		TypeInputFields:   {fieldKey{META_TYPE, "inputFields"}, true},
		TypeOfType:        {fieldKey{META_TYPE, "ofType"}, false},

		FieldArgs: {fieldKey{META_FIELD, "args"}, true},
		FieldType: {fieldKey{META_FIELD, "type"}, false},

		InputValueType: {fieldKey{META_INPUT_VALUE, "type"}, false},

		DirectiveArgs: {fieldKey{META_DIRECTIVE, "args"}, true},
	}
	fieldIndex = make(map[fieldKey]Field, len(fieldInfos))
)

func init() {
	for f, info := range fieldInfos {
		fieldIndex[info.key] = f
	}
}

// LookupField 根据(所属元类型, 字段名)查找自省字段
func LookupField(typeName, fieldName string) (Field, bool) {
	f, ok := fieldIndex[fieldKey{typeName, fieldName}]
	return f, ok
}

// Plural 字段是否返回列表
func (f Field) Plural() bool {
	return fieldInfos[f].plural
}

func (f Field) String() string {
	info, ok := fieldInfos[f]
	if !ok {
		return "unknown"
	}
	return info.key.typeName + "." + info.key.fieldName
}
