package syntax

// Kind identifies the grammar production of a node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindToken        // terminal: identifier, keyword, punctuation or opaque text

	// items
	KindModule   // [attrs, "mod", name, ModuleBody | ";"]
	KindImpl     // [attrs, "impl", name, "of", Path, ImplBody | ";"]
	KindFunction // [attrs, Declaration, Block]
	KindItem     // [attrs, text]: любой другой item, копируется как есть

	// item parts
	KindAttributeList
	KindAttribute     // ["#[", Path, AttributeArgs, "]"]
	KindAttributeArgs // ["(", AttributeArg, ",", ..., ")"] or empty
	KindAttributeArg
	KindPath
	KindModuleBody // ["{", ItemList, "}"]
	KindImplBody   // ["{", ItemList, "}"]
	KindItemList
	KindDeclaration // ["fn", name, Signature]
	KindSignature   // ["(", ParamList, ")", ReturnClause]
	KindParamList   // [Param, ",", Param, ...]
	KindParam       // [ModifierList, name, TypeClause]
	KindModifierList
	KindTypeClause   // [":", Type]
	KindType         // [text]
	KindReturnClause // ["->", Type] or empty
	KindBlock        // ["{", StatementList, "}"]
	KindStatementList
	KindStatement
)

var kindNames = [...]string{
	KindInvalid:       "Invalid",
	KindToken:         "Token",
	KindModule:        "ItemModule",
	KindImpl:          "ItemImpl",
	KindFunction:      "FunctionWithBody",
	KindItem:          "Item",
	KindAttributeList: "AttributeList",
	KindAttribute:     "Attribute",
	KindAttributeArgs: "AttributeArgs",
	KindAttributeArg:  "AttributeArg",
	KindPath:          "Path",
	KindModuleBody:    "ModuleBody",
	KindImplBody:      "ImplBody",
	KindItemList:      "ItemList",
	KindDeclaration:   "FunctionDeclaration",
	KindSignature:     "FunctionSignature",
	KindParamList:     "ParamList",
	KindParam:         "Param",
	KindModifierList:  "ModifierList",
	KindTypeClause:    "TypeClause",
	KindType:          "Type",
	KindReturnClause:  "ReturnTypeClause",
	KindBlock:         "ExprBlock",
	KindStatementList: "StatementList",
	KindStatement:     "Statement",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// IsItem reports whether nodes of this kind may appear in an ItemList.
func (k Kind) IsItem() bool {
	switch k {
	case KindModule, KindImpl, KindFunction, KindItem:
		return true
	}
	return false
}
