package postgres

import "testing"

func TestBuildCityWhere(t *testing.T) {
	where, args := buildCityWhere("")
	if where != "WHERE status = 'active'" || len(args) != 0 {
		t.Fatalf("unexpected clause %q %v", where, args)
	}

	where, args = buildCityWhere("Jaipur")
	if where != "WHERE status = 'active' AND city = $1" {
		t.Fatalf("unexpected clause %q", where)
	}
	if len(args) != 1 || args[0] != "Jaipur" {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestToDictionary(t *testing.T) {
	items := toDictionary([]string{"malviya nagar", " kota "})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].SystemName != "malviya nagar" || items[0].DisplayName != "Malviya Nagar" {
		t.Fatalf("unexpected item %+v", items[0])
	}
	if items[1].DisplayName != "Kota" {
		t.Fatalf("expected trimmed display name, got %q", items[1].DisplayName)
	}
}
