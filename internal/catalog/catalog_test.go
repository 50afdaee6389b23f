package catalog

import "testing"

func TestFindMatchesBusCaseInsensitively(t *testing.T) {
	o, ok := Find("  redline EXPRESS ", "Delhi → Mumbai")
	if !ok {
		t.Fatalf("expected offering to be found")
	}
	if o.BusName != "Redline Express" || o.Price != 1500 {
		t.Fatalf("unexpected offering %+v", o)
	}
}

func TestFindRequiresExactRoute(t *testing.T) {
	if _, ok := Find("Redline Express", "delhi → mumbai"); ok {
		t.Fatalf("route match must be exact")
	}
	if _, ok := Find("Redline Express", "Mumbai → Delhi"); ok {
		t.Fatalf("reversed route must not match")
	}
	if _, ok := Find("Ghost Lines", "Delhi → Mumbai"); ok {
		t.Fatalf("unknown bus must not match")
	}
}

func TestCatalogCopiesAreIsolated(t *testing.T) {
	a := Offerings()
	a[0].Price = 1
	b := Offerings()
	if b[0].Price == 1 {
		t.Fatalf("Offerings must return a copy")
	}
	if len(Destinations()) == 0 {
		t.Fatalf("destinations must not be empty")
	}
}
