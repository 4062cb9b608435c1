package constants

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/fuabioo/gridq/internal/env"
)

func TestNew(t *testing.T) {
	host := env.HostEnvironment{DomainURL: "https://acme.my.site.com/s/", IsCommunitySite: true}
	c := New(host)

	if c.VersionNumber != "4.3.3" {
		t.Errorf("VersionNumber = %q, want 4.3.3", c.VersionNumber)
	}
	if c.MaxRowCount != 2000 {
		t.Errorf("MaxRowCount = %d, want 2000", c.MaxRowCount)
	}
	if c.MyDomain != host.DomainURL {
		t.Errorf("MyDomain = %q, want %q", c.MyDomain, host.DomainURL)
	}
	if !c.IsCommunity || c.IsFlowBuilder {
		t.Errorf("IsCommunity = %v, IsFlowBuilder = %v", c.IsCommunity, c.IsFlowBuilder)
	}
	if c.ShowDebugInfo {
		t.Error("ShowDebugInfo should default to false")
	}
}

func TestNewIsIdempotent(t *testing.T) {
	host := env.Resolve("acme.lightning.force.com", "", nil)
	first := New(host)
	second := New(host)
	if first != second {
		t.Errorf("New() not idempotent: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(first.Map(), second.Map()) {
		t.Error("Map() not idempotent")
	}
}

func TestMapMatchesJSONKeys(t *testing.T) {
	c := New(env.HostEnvironment{DomainURL: "https://acme", IsBuilderContext: true})
	m := c.Map()

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	if len(m) != len(decoded) {
		t.Fatalf("Map() has %d keys, JSON has %d", len(m), len(decoded))
	}
	for key := range decoded {
		if _, ok := m[key]; !ok {
			t.Errorf("Map() missing key %q", key)
		}
	}

	tests := map[string]any{
		"MYDOMAIN":          "https://acme",
		"ISFLOWBUILDER":     true,
		"ISCOMMUNITY":       false,
		"REMOVE_ROW_ICON":   "utility:close",
		"DEBUG_INFO_PREFIX": "DATATABLE: ",
		"DEFAULT_COL_WIDTH": 200,
		"SEARCH_WAIT_TIME":  300,
	}
	for key, want := range tests {
		if m[key] != want {
			t.Errorf("Map()[%q] = %v, want %v", key, m[key], want)
		}
	}
}
