package kernel

import (
	"strings"
	"testing"

	"github.com/cwbudde/algo-vecmath/cpu"
)

func TestRegistry_LookupPriority(t *testing.T) {
	reg := &Registry{}

	reg.Register(Entry{Name: "generic", SIMDLevel: cpu.SIMDNone, Priority: 0})
	reg.Register(Entry{Name: "avx2", SIMDLevel: cpu.SIMDAVX2, Priority: 20})
	reg.Register(Entry{Name: "unrolled4", SIMDLevel: cpu.SIMDNone, Priority: 10, Tuned: true})

	tests := []struct {
		name     string
		features cpu.Features
		want     string
	}{
		{"avx2 capable", cpu.Features{HasSSE2: true, HasAVX2: true}, "avx2"},
		{"no avx2", cpu.Features{HasSSE2: true}, "unrolled4"},
		{"force generic", cpu.Features{HasAVX2: true, ForceGeneric: true}, "generic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reg.Lookup(tt.features)
			if got == nil {
				t.Fatal("Lookup() = nil")
			}
			if got.Name != tt.want {
				t.Errorf("Lookup() = %q; want %q", got.Name, tt.want)
			}
		})
	}
}

func TestRegistry_LookupEmpty(t *testing.T) {
	reg := &Registry{}
	if got := reg.Lookup(cpu.Features{}); got != nil {
		t.Errorf("Lookup() on empty registry = %q; want nil", got.Name)
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := &Registry{}
	reg.Register(Entry{Name: "generic", Priority: 0})
	reg.Register(Entry{Name: "unrolled4", Priority: 10})

	got := strings.Join(reg.Names(), ",")
	if got != "auto,unrolled4,generic" {
		t.Errorf("Names() = %q; want %q", got, "auto,unrolled4,generic")
	}

	reg.Reset()
	if got := strings.Join(reg.Names(), ","); got != "auto" {
		t.Errorf("Names() after Reset = %q; want %q", got, "auto")
	}
}

func TestGlobal_ByName(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"generic", "generic", false},
		{"  UNROLLED4 ", "unrolled4", false},
		{"auto", "", false},
		{"", "", false},
		{"avx512", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Global.ByName(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ByName(%q) = %q, nil; want error", tt.input, got.Name)
				}
				return
			}
			if err != nil {
				t.Fatalf("ByName(%q) unexpected error: %v", tt.input, err)
			}
			if tt.want != "" && got.Name != tt.want {
				t.Errorf("ByName(%q) = %q; want %q", tt.input, got.Name, tt.want)
			}
			if got.Axpy == nil || got.AxpyStrided == nil {
				t.Errorf("ByName(%q) returned entry without kernels", tt.input)
			}
		})
	}
}
