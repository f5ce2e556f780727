package models

import "testing"

func TestGradeLabel(t *testing.T) {
	want := map[int]string{
		2: "Слаб",
		3: "Среден",
		4: "Добър",
		5: "Много добър",
		6: "Отличен",
	}
	for _, v := range GradeValues {
		l, ok := GradeLabel(v)
		if !ok || l != want[v] {
			t.Fatalf("GradeLabel(%d) = %q, %v; ожидали %q", v, l, ok, want[v])
		}
	}
	for _, v := range []int{-1, 0, 1, 7, 10, 100} {
		if l, ok := GradeLabel(v); ok || l != "" {
			t.Fatalf("GradeLabel(%d) должен быть без подписи, получили %q", v, l)
		}
	}
}

func TestGradeText(t *testing.T) {
	if got := GradeText(6); got != "6 - Отличен" {
		t.Fatalf("получили %q", got)
	}
	if got := GradeText(9); got != "9" {
		t.Fatalf("значение вне шкалы выводится как есть, получили %q", got)
	}
}
