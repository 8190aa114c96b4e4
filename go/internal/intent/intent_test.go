package intent

import (
	"reflect"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		raw  string
		want Intent
	}{
		{`{"type":"start"}`, Start{}},
		{`{"type":"end_turn"}`, EndTurn{}},
		{`{"type":"pause"}`, Pause{}},
		{`{"type":"resume"}`, Resume{}},
		{`{"type":"back"}`, Back{}},
		{`{"type":"add_player"}`, AddPlayer{}},
		{`{"type":"remove_player","id":"p1"}`, RemovePlayer{ID: "p1"}},
		{`{"type":"rename_player","id":"p1","name":"Ada"}`, RenamePlayer{ID: "p1", Name: "Ada"}},
		{`{"type":"rename_player","id":"p1","name":""}`, RenamePlayer{ID: "p1", Name: ""}},
		{`{"type":"reorder_players","order":["b","a"]}`, ReorderPlayers{Order: []string{"b", "a"}}},
		{`{"type":"key","code":"Space"}`, KeyPress{Code: "Space"}},
	}
	for _, tt := range tests {
		got, err := Decode([]byte(tt.raw))
		if err != nil {
			t.Errorf("Decode(%s): %v", tt.raw, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Decode(%s) = %#v, want %#v", tt.raw, got, tt.want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	bad := []string{
		`not json`,
		`{}`,
		`{"type":"dance"}`,
		`{"type":"remove_player"}`,
		`{"type":"rename_player","id":"p1"}`,
		`{"type":"reorder_players","order":[]}`,
		`{"type":"key"}`,
	}
	for _, raw := range bad {
		if _, err := Decode([]byte(raw)); err == nil {
			t.Errorf("Decode(%s): expected error", raw)
		}
	}
}

func TestKeymapBindsOncePerView(t *testing.T) {
	k := NewKeymap("")
	if k.Key() != DefaultEndTurnKey {
		t.Fatalf("Key() = %q", k.Key())
	}
	if !k.Bind("view-1") {
		t.Fatal("first Bind should succeed")
	}
	if k.Bind("view-1") {
		t.Fatal("second Bind of the same view must be refused")
	}
	if !k.Bind("view-2") {
		t.Fatal("other views bind independently")
	}
	if !k.Unbind("view-1") {
		t.Fatal("Unbind should report removal")
	}
	if k.Unbind("view-1") {
		t.Fatal("Unbind twice should report nothing removed")
	}
	if !k.Bind("view-1") {
		t.Fatal("a remounted view can bind again")
	}
}

func TestKeymapTranslate(t *testing.T) {
	k := NewKeymap("Space")
	if _, ok := k.Translate("v", "Space"); ok {
		t.Fatal("unbound view must not produce intents")
	}
	k.Bind("v")
	got, ok := k.Translate("v", "Space")
	if !ok || got != (KeyPress{Code: "Space"}) {
		t.Fatalf("Translate = %#v, %v", got, ok)
	}
	if _, ok := k.Translate("v", "Enter"); ok {
		t.Fatal("other keys are ignored")
	}
	k.Unbind("v")
	if _, ok := k.Translate("v", "Space"); ok {
		t.Fatal("unmounted view must not produce intents")
	}
}
