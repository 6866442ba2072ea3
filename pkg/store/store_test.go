package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/characterhub/rickmorty-proxy/pkg/characters"
)

func TestInsertQuery(t *testing.T) {
	s := NewDisabled()
	fc := characters.FilteredCharacter{
		ID:      1,
		Name:    "Rick Sanchez",
		Status:  "Alive",
		Species: "Human",
		Origin:  "Earth (C-137)",
	}

	query, args, err := s.insertQuery(fc).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	want := "INSERT INTO characters (id,name,status,species,origin) VALUES ($1,$2,$3,$4,$5) ON CONFLICT (id) DO NOTHING"
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}

	wantArgs := []interface{}{1, "Rick Sanchez", "Alive", "Human", "Earth (C-137)"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args = %v, want %v", args, wantArgs)
	}
}

func TestDisabledStore(t *testing.T) {
	s := NewDisabled()
	ctx := context.Background()
	fc := characters.FilteredCharacter{ID: 1, Name: "Rick Sanchez"}

	if s.Enabled() {
		t.Error("Enabled() = true for disabled store")
	}

	if err := s.InsertCharacter(ctx, fc); !errors.Is(err, ErrDisabled) {
		t.Errorf("InsertCharacter = %v, want ErrDisabled", err)
	}

	if _, err := s.CountCharacters(ctx); !errors.Is(err, ErrDisabled) {
		t.Errorf("CountCharacters = %v, want ErrDisabled", err)
	}

	if err := s.Ping(ctx); !errors.Is(err, ErrDisabled) {
		t.Errorf("Ping = %v, want ErrDisabled", err)
	}

	// Must not panic and must not surface any error.
	s.UpsertBestEffort(ctx, fc)
	s.Close()
}
