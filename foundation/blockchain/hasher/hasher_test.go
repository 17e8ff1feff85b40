package hasher_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/hasher"
)

func Test_Hash(t *testing.T) {
	value := "hello"
	hash := "5aa762ae383fbb727af3c7a36d4940a5b8c40a989452d2304fc958ff3f354e7a"

	h := hasher.Hash(value)
	if h != hash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the right hash: %s", h[:6])
	}

	h = hasher.Hash(value)
	if h != hash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the same hash twice.")
	}

	if !hasher.IsHash(h) {
		t.Fatalf("Should recognize the hash as a fingerprint.")
	}
}

func Test_HashOrderIndependence(t *testing.T) {
	hash := "9dd7a91df1159938b3bde137f9684250ad7dee2465b0e273feb72824988d0ce6"

	first := map[string]int{}
	first["Alice"] = 50
	first["Bob"] = 50

	second := map[string]int{}
	second["Bob"] = 50
	second["Alice"] = 50

	h1 := hasher.Hash(first)
	h2 := hasher.Hash(second)

	if h1 != h2 {
		t.Logf("got: %s", h1)
		t.Logf("got: %s", h2)
		t.Fatalf("Should get the same hash regardless of construction order.")
	}

	if h1 != hash {
		t.Logf("got: %s", h1)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the right hash.")
	}
}

func Test_HashUnsupported(t *testing.T) {
	if h := hasher.Hash(make(chan int)); h != hasher.ZeroHash {
		t.Logf("got: %s", h)
		t.Fatalf("Should get back the zero hash for a value that cannot be encoded.")
	}
}

func Test_IsHash(t *testing.T) {
	tt := []struct {
		value string
		exp   bool
	}{
		{hasher.ZeroHash, true},
		{"5aa762ae383fbb727af3c7a36d4940a5b8c40a989452d2304fc958ff3f354e7a", true},
		{"5AA762AE383FBB727AF3C7A36D4940A5B8C40A989452D2304FC958FF3F354E7A", false},
		{"0x5aa762ae383fbb727af3c7a36d4940a5b8c40a989452d2304fc958ff3f354e", false},
		{"abc", false},
	}

	for _, tst := range tt {
		if got := hasher.IsHash(tst.value); got != tst.exp {
			t.Errorf("IsHash(%q) got %v, exp %v", tst.value, got, tst.exp)
		}
	}
}
