package climate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"plantcare/entities"
)

func TestDefaultFallbacksCoverEveryType(t *testing.T) {
	tbl := DefaultFallbacks()
	for _, pt := range entities.PlantTypes {
		r := tbl.Lookup(pt)
		if r.Advice == "" || r.FrequencyDays < MinFrequencyDays || r.FrequencyDays > MaxFrequencyDays {
			t.Fatalf("%s: bad rule %+v", pt, r)
		}
	}
	if got := tbl.Lookup("Bonsai"); got != genericRule {
		t.Fatalf("unknown type should get generic rule, got %+v", got)
	}
	if got := tbl.Lookup(entities.PlantSucculent).FrequencyDays; got != 14 {
		t.Fatalf("succulent frequency: got=%d", got)
	}
}

func TestLoadFallbacksCSVOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fallback.csv")
	body := "\uFEFFPlant Type,Frequency Days,Advice,Best Time\n" +
		"fern,2,Mist daily.,evening\n" +
		"Cactus,90,,\n" +
		"Unicorn,3,ignored,\n" +
		"generic,10,Generic text,\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := LoadFallbacks(path, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	fern := tbl.Lookup(entities.PlantFern)
	if fern.FrequencyDays != 2 || fern.Advice != "Mist daily." || fern.BestTime != entities.BestTimeEvening {
		t.Fatalf("fern: %+v", fern)
	}
	if got := tbl.Lookup(entities.PlantCactus); got.FrequencyDays != MaxFrequencyDays || got.Advice == "" {
		t.Fatalf("cactus should be clamped and keep default text: %+v", got)
	}
	if got := tbl.Lookup("Unknown"); got.FrequencyDays != 10 || got.Advice != "Generic text" {
		t.Fatalf("generic: %+v", got)
	}
}

func TestLoadFallbacksXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fallback.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"type", "interval_days", "amount"},
		{"Orchid", 0, "generous"},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	tbl, err := LoadFallbacks("", path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := tbl.Lookup(entities.PlantOrchid)
	if got.FrequencyDays != MinFrequencyDays || got.Amount != entities.AmountGenerous {
		t.Fatalf("orchid: %+v", got)
	}
}

func TestLoadFallbacksMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("name,notes\nfern,x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := LoadFallbacks(path, "")
	if err == nil {
		t.Fatalf("want error for missing columns")
	}
	if tbl == nil || tbl.Lookup(entities.PlantFern).FrequencyDays != 3 {
		t.Fatalf("defaults should survive a bad override file")
	}
}

func TestClampFrequency(t *testing.T) {
	for in, want := range map[int]int{-4: 1, 0: 1, 1: 1, 7: 7, 30: 30, 45: 30} {
		if got := ClampFrequency(in); got != want {
			t.Fatalf("clamp(%d)=%d want %d", in, got, want)
		}
	}
}
