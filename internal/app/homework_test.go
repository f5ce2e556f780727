package app

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/eliteclass/ediary/internal/models"
	"github.com/eliteclass/ediary/internal/storage"
)

func TestCheckUpload(t *testing.T) {
	h := NewHomeworks(nil, nil, nil)
	student := Actor{ID: uuid.New(), Role: models.Student}
	hw := uuid.New()
	body := strings.NewReader("x")

	if h.MaxSize != storage.MaxHomeworkSize {
		t.Fatalf("default max = %d", h.MaxSize)
	}

	cases := []struct {
		name string
		a    Actor
		up   Upload
		ok   bool
	}{
		{"ok", student, Upload{HomeworkID: hw.String(), FileName: "a.pdf", Size: 10, Body: body}, true},
		{"exactly limit", student, Upload{HomeworkID: hw.String(), FileName: "a.pdf", Size: storage.MaxHomeworkSize, Body: body}, true},
		{"too large", student, Upload{HomeworkID: hw.String(), FileName: "a.pdf", Size: storage.MaxHomeworkSize + 1, Body: body}, false},
		{"teacher", Actor{ID: uuid.New(), Role: models.Teacher}, Upload{HomeworkID: hw.String(), FileName: "a.pdf", Size: 10, Body: body}, false},
		{"no homework", student, Upload{FileName: "a.pdf", Size: 10, Body: body}, false},
		{"no file", student, Upload{HomeworkID: hw.String()}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := h.CheckUpload(tc.a, tc.up)
			if tc.ok && (err != nil || id != hw) {
				t.Fatalf("id = %v, err = %v", id, err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected rejection")
			}
		})
	}
	_, err := h.CheckUpload(student, Upload{HomeworkID: hw.String(), FileName: "a.pdf", Size: storage.MaxHomeworkSize + 1, Body: body})
	if err == nil || err.Error() != "Файлът е твърде голям. Максимум 10MB." {
		t.Fatalf("сообщение о лимите: %v", err)
	}
}
