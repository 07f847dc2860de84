package commands

import (
	"errors"
	"testing"

	"tasklists/internal/liststore"
)

func TestParseTaskRef_Number(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 5 {
		t.Errorf("expected Num 5, got %d", ref.Num)
	}
	if ref.ID != liststore.NoID {
		t.Errorf("expected no ID, got %v", ref.ID)
	}
}

func TestParseTaskRef_ID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"id:1712345678901"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != 1712345678901 {
		t.Errorf("expected ID 1712345678901, got %v", ref.ID)
	}
	if ref.Num != 0 {
		t.Errorf("expected Num 0, got %d", ref.Num)
	}
}

func TestParseTaskRef_Required(t *testing.T) {
	for _, args := range [][]string{nil, {}, {" "}} {
		if _, err := ParseTaskRef(args); !errors.Is(err, ErrTaskRefRequired) {
			t.Errorf("ParseTaskRef(%q): expected ErrTaskRefRequired, got %v", args, err)
		}
	}
}

func TestParseTaskRef_Invalid(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"abc"}, "invalid task reference: abc"},
		{[]string{"-1"}, "invalid task reference: -1"},
		{[]string{"1.5"}, "invalid task reference: 1.5"},
		{[]string{"id:"}, "invalid task reference: id:"},
		{[]string{"id:0"}, "invalid task reference: id:0"},
		{[]string{"id:x"}, "invalid task reference: id:x"},
		{[]string{"1", "2"}, "invalid task reference: 1 2"},
		{[]string{"٣"}, "invalid task reference: ٣"},
	}
	for _, tt := range tests {
		_, err := ParseTaskRef(tt.args)
		if err == nil {
			t.Errorf("ParseTaskRef(%q): expected error", tt.args)
			continue
		}
		if err.Error() != tt.want {
			t.Errorf("ParseTaskRef(%q): expected %q, got %q", tt.args, tt.want, err.Error())
		}
	}
}

func TestTaskRef_Resolve(t *testing.T) {
	list := liststore.List{
		ID:   1,
		Name: "Default",
		Tasks: []liststore.Task{
			{ID: 10, Text: "first"},
			{ID: 20, Text: "second"},
		},
	}

	task, err := TaskRef{Num: 2}.Resolve(list)
	if err != nil || task.ID != 20 {
		t.Errorf("Num 2: got %+v, %v", task, err)
	}

	task, err = TaskRef{ID: 10}.Resolve(list)
	if err != nil || task.Text != "first" {
		t.Errorf("ID 10: got %+v, %v", task, err)
	}

	if _, err := (TaskRef{Num: 3}).Resolve(list); err == nil || err.Error() != "task number out of range: 3" {
		t.Errorf("Num 3: expected out of range, got %v", err)
	}
	if _, err := (TaskRef{ID: 30}).Resolve(list); err == nil || err.Error() != "task not found: 30" {
		t.Errorf("ID 30: expected not found, got %v", err)
	}
}

func TestIsAllDigits(t *testing.T) {
	tests := map[string]bool{
		"":    false,
		"0":   true,
		"123": true,
		"12a": false,
		" 1":  false,
	}
	for in, want := range tests {
		if got := isAllDigits(in); got != want {
			t.Errorf("isAllDigits(%q) = %v, want %v", in, got, want)
		}
	}
}
