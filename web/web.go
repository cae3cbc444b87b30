package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates разбирает встроенные HTML-шаблоны страниц. Имя шаблона - имя файла, например "quiz.html".
func Templates() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/*.html")
}

// MustTemplates - как Templates, но паникует при ошибке разбора
func MustTemplates() *template.Template {
	return template.Must(Templates())
}
