// Package render: безопасный вывод текста и форматирование дат для страниц.
package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape обезвреживает пять зарезервированных символов разметки.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Text: Escape для любого значения; nil и пустые указатели дают "".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return Escape(x)
	case *string:
		if x == nil {
			return ""
		}
		return Escape(*x)
	case fmt.Stringer:
		return Escape(x.String())
	}
	return Escape(fmt.Sprint(v))
}

// HTML: Text в виде готового фрагмента для html/template.
func HTML(v any) template.HTML {
	return template.HTML(Text(v))
}

// Dash: "-" вместо пустого значения.
func Dash(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		if x == "" {
			return "-"
		}
		return x
	case *string:
		if x == nil || *x == "" {
			return "-"
		}
		return *x
	case *time.Time:
		if x == nil {
			return "-"
		}
		return Date(*x)
	}
	return fmt.Sprint(v)
}

const (
	dateLayout     = "02.01.2006"
	dateTimeLayout = "02.01.2006 15:04"
	// ISODate: формат value для <input type="date">.
	ISODate = "2006-01-02"
	// LocalDateTime: формат value для <input type="datetime-local">.
	LocalDateTime = "2006-01-02T15:04"
)

var loc = time.Local

// SetLocation задаёт часовой пояс вывода.
func SetLocation(l *time.Location) {
	if l != nil {
		loc = l
	}
}

func Location() *time.Location { return loc }

func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func DateTime(v any) string {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return "-"
		}
		return x.In(loc).Format(dateTimeLayout)
	case *time.Time:
		if x == nil || x.IsZero() {
			return "-"
		}
		return x.In(loc).Format(dateTimeLayout)
	}
	return "-"
}

// FuncMap: функции для шаблонов. text используется во всех точках вывода данных.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"text":     HTML,
		"dash":     Dash,
		"date":     Date,
		"datetime": DateTime,
		"isodate": func(t time.Time) string {
			return t.Format(ISODate)
		},
	}
}
