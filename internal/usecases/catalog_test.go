package usecases

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"papelariabot/internal/entities"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := LoadCatalogCSV(filepath.Join(t.TempDir(), "missing.csv"), 30*time.Minute)
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if c.Size() != 10 {
		t.Fatalf("default catalog size = %d, want 10", c.Size())
	}

	opt, ok := c.Lookup(1)
	if !ok {
		t.Fatal("code 1 missing")
	}
	if opt.Label != "Impressão" {
		t.Errorf("code 1 label = %q", opt.Label)
	}
	if opt.LeadTime <= 0 {
		t.Error("code 1 has no lead time")
	}
}

func TestMenuMessageListsEverything(t *testing.T) {
	c, err := LoadCatalogCSV("does-not-exist.csv", 30*time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	menu := c.MenuMessage("Bruno")
	if !strings.Contains(menu, "*Bruno*") {
		t.Error("menu should greet the customer by name")
	}
	for _, opt := range c.Options() {
		if !strings.Contains(menu, opt.Label) {
			t.Errorf("menu missing service %q", opt.Label)
		}
		if !strings.Contains(menu, opt.PriceDescription) {
			t.Errorf("menu missing price for %q", opt.Label)
		}
	}

	anon := c.MenuMessage("")
	if strings.Contains(anon, "**") {
		t.Error("anonymous menu should not render an empty name")
	}
}

func TestLoadCatalogCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.csv")
	csv := "code,label,price,lead_minutes\n1,Impressão,R$ 2 por página,15\n2,Xerox,R$ 0.50,\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalogCSV(path, 45*time.Minute)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d, want 2", c.Size())
	}
	if opt, _ := c.Lookup(1); opt.LeadTime != 15*time.Minute {
		t.Errorf("lead time = %v, want 15m", opt.LeadTime)
	}
	if opt, _ := c.Lookup(2); opt.LeadTime != 45*time.Minute {
		t.Errorf("default lead time = %v, want 45m", opt.LeadTime)
	}
}

func TestLoadCatalogCSVInvalid(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"bad code", "x,Impressão,R$ 2,15\n"},
		{"bad lead", "1,Impressão,R$ 2,abc\n"},
		{"duplicate code", "1,Impressão,R$ 2,15\n1,Xerox,R$ 0.50,10\n"},
		{"gap in codes", "1,Impressão,R$ 2,15\n3,Xerox,R$ 0.50,10\n"},
		{"missing label", "1,,R$ 2,15\n"},
	}

	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), "services.csv")
		if err := os.WriteFile(path, []byte(tt.csv), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadCatalogCSV(path, 30*time.Minute); err == nil {
			t.Errorf("%s: want error, got none", tt.name)
		}
	}
}

func TestNewCatalogRejectsEmpty(t *testing.T) {
	if _, err := NewCatalog(nil); err == nil {
		t.Error("empty catalog should be rejected")
	}
}

func TestSelectionMessage(t *testing.T) {
	msg := SelectionMessage(entities.ServiceOption{
		Code: 1, Label: "Impressão", PriceDescription: "R$ 2,00 por página", LeadTime: 15 * time.Minute,
	})
	if !strings.Contains(msg, "Impressão") || !strings.Contains(msg, "R$ 2,00 por página") {
		t.Errorf("selection message incomplete: %q", msg)
	}
	if !strings.Contains(msg, "15 minutos") {
		t.Errorf("selection message should mention the lead time: %q", msg)
	}
}
