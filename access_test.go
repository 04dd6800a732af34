package main

import "testing"

func TestParseAllowList(t *testing.T) {
	allow := ParseAllowList("@Alice, bob ,CAROL,")

	for _, name := range []string{"alice", "Alice", "ALICE", "@alice", "bob", "carol"} {
		if !allow.Allowed(name) {
			t.Fatalf("%q must be allowed", name)
		}
	}
	if allow.Allowed("mallory") {
		t.Fatal("unknown username must be denied")
	}
	if allow.Allowed("") {
		t.Fatal("empty username must be denied")
	}
}

func TestParseAllowList_EmptyDeniesEveryone(t *testing.T) {
	allow := ParseAllowList("")
	if allow.Allowed("alice") {
		t.Fatal("empty allow-list must deny everyone")
	}
}
