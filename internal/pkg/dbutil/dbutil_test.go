package dbutil

import (
	"reflect"
	"testing"
)

func TestFinalizeRewritesLimit(t *testing.T) {
	query := "SELECT id FROM repositories WHERE owner_id=? LIMIT ?,?"
	args := []interface{}{"owner", 20, 10}

	got, gotArgs := Finalize(query, args)
	want := "SELECT id FROM repositories WHERE owner_id=$1 LIMIT $2 OFFSET $3"
	if got != want {
		t.Errorf("query = %q, want %q", got, want)
	}
	// gendry emits (offset, limit); postgres wants (limit, offset).
	if !reflect.DeepEqual(gotArgs, []interface{}{"owner", 10, 20}) {
		t.Errorf("args = %v, want [owner 10 20]", gotArgs)
	}
}

func TestFinalizeWithoutLimit(t *testing.T) {
	got, args := Finalize("SELECT id FROM users WHERE email=?", []interface{}{"a@b.c"})
	if got != "SELECT id FROM users WHERE email=$1" {
		t.Errorf("query = %q", got)
	}
	if len(args) != 1 || args[0] != "a@b.c" {
		t.Errorf("args = %v", args)
	}
}
