package resolve

// CategoryAdminRule is the category code for administrative rules (notices,
// directives, established rules). These carry no fixed statute name; it is
// inferred from the result title instead.
const CategoryAdminRule = "5"

// statuteByCategory maps upstream category codes to statute names with
// canonical registry pages. Categories absent here (media, guides,
// education material) resolve through their sourcePath only.
var statuteByCategory = map[string]string{
	"1": "산업안전보건법",
	"2": "산업안전보건법 시행령",
	"3": "산업안전보건법 시행규칙",
	"4": "산업안전보건기준에 관한 규칙",
}

// StatuteName returns the statute name for a category code.
func StatuteName(category string) (string, bool) {
	name, ok := statuteByCategory[category]
	return name, ok
}
