package climate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"plantcare/entities"
)

const (
	MinFrequencyDays = 1
	MaxFrequencyDays = 30
)

// FallbackRule is static watering guidance for one plant category.
type FallbackRule struct {
	Advice        string
	FrequencyDays int
	BestTime      entities.BestTime
	Amount        entities.WaterAmount
}

type FallbackTable struct {
	rules   map[entities.PlantType]FallbackRule
	generic FallbackRule
}

var genericRule = FallbackRule{
	Advice:        "Water when the top few centimetres of soil feel dry, then let excess water drain away. Check more often in warm weather.",
	FrequencyDays: 7, BestTime: entities.BestTimeMorning, Amount: entities.AmountModerate,
}

func defaultRules() map[entities.PlantType]FallbackRule {
	return map[entities.PlantType]FallbackRule{
		entities.PlantSucculent: {"Soak the soil thoroughly, then wait until it is completely dry before watering again. Overwatering is the most common cause of rot.", 14, entities.BestTimeMorning, entities.AmountModerate},
		entities.PlantCactus:    {"Water sparingly and only when the soil is bone dry. Reduce watering further in the cooler months.", 21, entities.BestTimeMorning, entities.AmountLight},
		entities.PlantTropical:  {"Keep the soil lightly moist but never soggy. Tropical plants enjoy humidity, so mist leaves between waterings.", 5, entities.BestTimeMorning, entities.AmountModerate},
		entities.PlantFern:      {"Ferns like consistently moist soil. Water as soon as the surface starts to dry and keep them away from dry heat.", 3, entities.BestTimeMorning, entities.AmountModerate},
		entities.PlantFlowering: {"Water at the base when the top of the soil is dry. Avoid wetting flowers and leaves to prevent disease.", 4, entities.BestTimeMorning, entities.AmountModerate},
		entities.PlantHerb:      {"Most herbs prefer soil that dries slightly between waterings. Water deeply but let the pot drain well.", 3, entities.BestTimeMorning, entities.AmountModerate},
		entities.PlantVegetable: {"Vegetables need steady moisture, especially while fruiting. Water deeply at soil level.", 2, entities.BestTimeMorning, entities.AmountGenerous},
		entities.PlantPalm:      {"Water when the top half of the soil is dry. Palms dislike standing water, so empty the saucer.", 7, entities.BestTimeMorning, entities.AmountGenerous},
		entities.PlantOrchid:    {"Water orchids when the potting medium is almost dry, letting water run through and drain completely.", 7, entities.BestTimeMorning, entities.AmountLight},
		entities.PlantOther:     genericRule,
	}
}

// DefaultFallbacks returns the built-in table.
func DefaultFallbacks() *FallbackTable {
	return &FallbackTable{rules: defaultRules(), generic: genericRule}
}

// Lookup returns the rule for plantType, or the generic rule for unknown types.
func (t *FallbackTable) Lookup(plantType entities.PlantType) FallbackRule {
	if r, ok := t.rules[plantType]; ok {
		return r
	}
	return t.generic
}

// LoadFallbacks starts from the built-in table and applies overrides from the
// given CSV and XLSX files. Either path may be empty.
func LoadFallbacks(csvPath, xlsxPath string) (*FallbackTable, error) {
	t := DefaultFallbacks()
	if csvPath != "" {
		if err := t.loadCSV(csvPath); err != nil {
			return t, fmt.Errorf("fallback csv: %w", err)
		}
	}
	if xlsxPath != "" {
		if err := t.loadXLSX(xlsxPath); err != nil {
			return t, fmt.Errorf("fallback xlsx: %w", err)
		}
	}
	return t, nil
}

func (t *FallbackTable) loadCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		rows = append(rows, rec)
	}
	return t.applyRows(rows)
}

func (t *FallbackTable) loadXLSX(path string) error {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer x.Close()

	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return errors.New("workbook has no sheets")
	}
	rows, err := x.GetRows(sheets[0])
	if err != nil {
		return err
	}
	return t.applyRows(rows)
}

// applyRows reads a header row plus data rows. Columns are matched by alias.
func (t *FallbackTable) applyRows(rows [][]string) error {
	if len(rows) == 0 {
		return errors.New("empty table")
	}

	norm := func(s string) string {
		s = strings.TrimSpace(s)
		s = strings.TrimPrefix(s, "\uFEFF") // BOM
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, "-", "")
		s = strings.ReplaceAll(s, "_", "")
		return s
	}
	hmap := map[string]int{}
	for i, h := range rows[0] {
		hmap[norm(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}

	cType := findAny("plant_type", "type", "category")
	cFreq := findAny("frequency_days", "frequency", "interval_days", "every_days")
	cAdv := findAny("advice", "text", "notes")
	cTime := findAny("best_time", "time")
	cAmt := findAny("amount", "volume")
	if cType == -1 || cFreq == -1 {
		return fmt.Errorf("missing required columns. Found headers: %v. Need at least: plant_type, frequency_days", rows[0])
	}

	for _, rec := range rows[1:] {
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}

		key := get(cType)
		freq, err := strconv.Atoi(get(cFreq))
		if key == "" || err != nil {
			continue // skip invalid rows
		}

		base := t.generic
		pt := entities.PlantType(key)
		generic := strings.EqualFold(key, "generic") || strings.EqualFold(key, "default")
		if !generic {
			pt = normalizeType(key)
			if pt == "" {
				continue
			}
			base = t.Lookup(pt)
		}

		r := base
		r.FrequencyDays = ClampFrequency(freq)
		if v := get(cAdv); v != "" {
			r.Advice = v
		}
		if v := entities.BestTime(strings.ToLower(get(cTime))); validBestTime(v) {
			r.BestTime = v
		}
		if v := entities.WaterAmount(strings.ToLower(get(cAmt))); validAmount(v) {
			r.Amount = v
		}

		if generic {
			t.generic = r
		} else {
			t.rules[pt] = r
		}
	}
	return nil
}

// ClampFrequency forces a watering interval into [1,30] days.
func ClampFrequency(n int) int {
	if n < MinFrequencyDays {
		return MinFrequencyDays
	}
	if n > MaxFrequencyDays {
		return MaxFrequencyDays
	}
	return n
}

func normalizeType(s string) entities.PlantType {
	for _, k := range entities.PlantTypes {
		if strings.EqualFold(string(k), s) {
			return k
		}
	}
	return ""
}

func validBestTime(v entities.BestTime) bool {
	for _, k := range entities.BestTimes {
		if k == v {
			return true
		}
	}
	return false
}

func validAmount(v entities.WaterAmount) bool {
	for _, k := range entities.WaterAmounts {
		if k == v {
			return true
		}
	}
	return false
}
