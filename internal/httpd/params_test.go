package httpd

import "testing"

func TestParamsGet(t *testing.T) {
	p := params{"name": "eax", "empty": ""}

	if v, ok := p.get("name"); !ok || v != "eax" {
		t.Errorf("get(name) = (%q, %v)", v, ok)
	}
	if v, ok := p.get("empty"); !ok || v != "" {
		t.Errorf("get(empty) = (%q, %v), want present empty string", v, ok)
	}
	if _, ok := p.get("missing"); ok {
		t.Error("get(missing) should report absent")
	}
}

func TestParamsGetAddr(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  uint64
		ok    bool
	}{
		{name: "hex", value: "0x1000", want: 0x1000, ok: true},
		{name: "decimal", value: "4096", want: 4096, ok: true},
		{name: "zero", value: "0", want: 0, ok: true},
		{name: "garbage", value: "xyz", ok: false},
		{name: "negative", value: "-1", ok: false},
		{name: "trailing junk", value: "0x10zz", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := params{"addr": tt.value}
			got, ok := p.getAddr("addr")
			if ok != tt.ok {
				t.Fatalf("getAddr(%q) ok = %v, want %v", tt.value, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("getAddr(%q) = %#x, want %#x", tt.value, got, tt.want)
			}
		})
	}

	if _, ok := (params{}).getAddr("addr"); ok {
		t.Error("absent key should report false")
	}
}

func TestParamsGetInt(t *testing.T) {
	p := params{"offset": "-4", "max": "0x10", "bad": "ten"}

	if v, ok := p.getInt("offset"); !ok || v != -4 {
		t.Errorf("getInt(offset) = (%d, %v), want (-4, true)", v, ok)
	}
	if v, ok := p.getInt("max"); !ok || v != 16 {
		t.Errorf("getInt(max) = (%d, %v), want (16, true)", v, ok)
	}
	if _, ok := p.getInt("bad"); ok {
		t.Error("getInt(bad) should report false")
	}
	if _, ok := p.getInt("missing"); ok {
		t.Error("getInt(missing) should report false")
	}
}

func TestParamsGetBool(t *testing.T) {
	tests := []struct {
		value     string
		want      bool
		wantFound bool
	}{
		{value: "true", want: true, wantFound: true},
		{value: "1", want: true, wantFound: true},
		{value: "yes", want: true, wantFound: true},
		{value: "TRUE", want: false, wantFound: true}, // truthy set is case-sensitive
		{value: "false", want: false, wantFound: true},
		{value: "0", want: false, wantFound: true},
		{value: "anything", want: false, wantFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			p := params{"manual": tt.value}
			got, found := p.getBool("manual")
			if found != tt.wantFound || got != tt.want {
				t.Errorf("getBool(%q) = (%v, %v), want (%v, %v)",
					tt.value, got, found, tt.want, tt.wantFound)
			}
		})
	}

	if _, found := (params{}).getBool("manual"); found {
		t.Error("absent key should report not found so callers can default")
	}
}
