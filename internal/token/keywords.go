package token

var keywords = map[string]Kind{
	"protocol":       KwProtocol,
	"class":          KwClass,
	"struct":         KwStruct,
	"enum":           KwEnum,
	"extension":      KwExtension,
	"func":           KwFunc,
	"var":            KwVar,
	"let":            KwLet,
	"init":           KwInit,
	"deinit":         KwDeinit,
	"subscript":      KwSubscript,
	"typealias":      KwTypealias,
	"associatedtype": KwAssociatedtype,
	"import":         KwImport,
	"case":           KwCase,
	"operator":       KwOperator,
	"throws":         KwThrows,
	"rethrows":       KwRethrows,
	"inout":          KwInout,
	"where":          KwWhere,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые. Контекстные слова (get, set, mutating,
// static, public, some, any, async, ...) остаются Ident и распознаются парсером по тексту.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
