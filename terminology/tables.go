// Package terminology owns the curated lookup tables and the matching logic
// that annotates conditions and medications with codes. Tables are
// pipe-separated files named by a YAML manifest; a table that cannot be
// loaded is a startup failure, never a degraded run.
package terminology

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	"medscribe.io/enrich/logger"
	"medscribe.io/enrich/norm"
	"medscribe.io/enrich/types"
	"medscribe.io/enrich/utils"
)

const ManifestFileName = "terminology.yaml"

type Manifest struct {
	Conditions        string `yaml:"conditions"`
	ConditionSynonyms string `yaml:"condition_synonyms"`
	Medications       string `yaml:"medications"`
	LinkRules         string `yaml:"link_rules"`
}

type ConditionEntry struct {
	Code     string
	Display  string
	Category string
}

type MedicationEntry struct {
	Generic   string
	RxCUI     string
	Display   string
	DrugClass string
	Brands    []string
}

type LinkRule struct {
	Code    string
	Display string
}

type Tables struct {
	conditions map[string]*ConditionEntry
	synonyms   map[string]string

	medications map[string]*MedicationEntry
	brands      map[string]string

	rules map[types.OrderKind]map[string][]LinkRule

	// sorted candidate key lists, so fuzzy scans and partial rule lookups
	// are deterministic. Fuzzy scans cover canonical keys only; synonyms
	// and brands resolve in their own tier first.
	conditionFuzzyKeys  []string
	medicationFuzzyKeys []string
	ruleKeys            map[types.OrderKind][]string
}

func Load(resourcePath string) (*Tables, error) {
	tablesLogger := logger.NewLogger("Terminology tables")

	manifest, err := readManifest(resourcePath)
	if err != nil {
		return nil, err
	}

	tables := Tables{
		conditions:  make(map[string]*ConditionEntry),
		synonyms:    make(map[string]string),
		medications: make(map[string]*MedicationEntry),
		brands:      make(map[string]string),
		rules:       make(map[types.OrderKind]map[string][]LinkRule),
		ruleKeys:    make(map[types.OrderKind][]string),
	}

	if err := tables.loadConditions(path.Join(resourcePath, manifest.Conditions)); err != nil {
		return nil, fmt.Errorf("failed to load conditions table: %w", err)
	}
	if err := tables.loadSynonyms(path.Join(resourcePath, manifest.ConditionSynonyms)); err != nil {
		return nil, fmt.Errorf("failed to load condition synonyms table: %w", err)
	}
	if err := tables.loadMedications(path.Join(resourcePath, manifest.Medications)); err != nil {
		return nil, fmt.Errorf("failed to load medications table: %w", err)
	}
	if err := tables.loadLinkRules(path.Join(resourcePath, manifest.LinkRules)); err != nil {
		return nil, fmt.Errorf("failed to load link rules table: %w", err)
	}
	tables.buildKeyLists()

	tablesLogger.Info().
		Int("conditions", len(tables.conditions)).
		Int("condition_synonyms", len(tables.synonyms)).
		Int("medications", len(tables.medications)).
		Int("brands", len(tables.brands)).
		Msg("Loaded terminology tables")
	return &tables, nil
}

func readManifest(resourcePath string) (*Manifest, error) {
	manifestPath := path.Join(resourcePath, ManifestFileName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", manifestPath, err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", manifestPath, err)
	}
	for name, file := range map[string]string{
		"conditions":         manifest.Conditions,
		"condition_synonyms": manifest.ConditionSynonyms,
		"medications":        manifest.Medications,
		"link_rules":         manifest.LinkRules,
	} {
		if file == "" {
			return nil, fmt.Errorf("manifest %s does not name a %s table", manifestPath, name)
		}
	}
	return &manifest, nil
}

func rowHash(columns []string) uint64 {
	return utils.HashString(strings.Join(columns, "|"))
}

// conditions.bsv: name|code|display|category
func (t *Tables) loadConditions(bsvPath string) error {
	rows, err := utils.NewBSVReader(bsvPath, rowHash)
	if err != nil {
		return err
	}
	for columns := range rows {
		if len(columns) < 4 {
			return fmt.Errorf("%s: expected 4 columns, got %d", bsvPath, len(columns))
		}
		key := norm.Condition(columns[0])
		if key == "" {
			continue
		}
		t.conditions[key] = &ConditionEntry{
			Code:     strings.ToUpper(columns[1]),
			Display:  columns[2],
			Category: columns[3],
		}
	}
	return nil
}

// condition_synonyms.bsv: synonym|canonical
func (t *Tables) loadSynonyms(bsvPath string) error {
	rows, err := utils.NewBSVReader(bsvPath, rowHash)
	if err != nil {
		return err
	}
	for columns := range rows {
		if len(columns) < 2 {
			return fmt.Errorf("%s: expected 2 columns, got %d", bsvPath, len(columns))
		}
		synonym := norm.Condition(columns[0])
		canonical := norm.Condition(columns[1])
		if synonym == "" || canonical == "" || synonym == canonical {
			continue
		}
		t.synonyms[synonym] = canonical
	}
	return nil
}

// medications.bsv: generic|rxcui|display|drug_class|brand...
func (t *Tables) loadMedications(bsvPath string) error {
	rows, err := utils.NewBSVReader(bsvPath, rowHash)
	if err != nil {
		return err
	}
	for columns := range rows {
		if len(columns) < 4 {
			return fmt.Errorf("%s: expected at least 4 columns, got %d", bsvPath, len(columns))
		}
		key := norm.Medication(columns[0])
		if key == "" {
			continue
		}
		entry := MedicationEntry{
			Generic:   columns[0],
			RxCUI:     columns[1],
			Display:   columns[2],
			DrugClass: columns[3],
		}
		for _, brand := range columns[4:] {
			brandKey := norm.Medication(brand)
			if brandKey == "" {
				continue
			}
			entry.Brands = append(entry.Brands, brand)
			t.brands[brandKey] = key
		}
		t.medications[key] = &entry
	}
	return nil
}

// link_rules.bsv: kind|signal|code|display
func (t *Tables) loadLinkRules(bsvPath string) error {
	rows, err := utils.NewBSVReader(bsvPath, rowHash)
	if err != nil {
		return err
	}
	for columns := range rows {
		if len(columns) < 4 {
			return fmt.Errorf("%s: expected 4 columns, got %d", bsvPath, len(columns))
		}
		kind := types.OrderKind(strings.TrimSpace(columns[0]))
		switch kind {
		case types.OrderKindMedication, types.OrderKindLab, types.OrderKindReferral, types.OrderKindProcedure:
		default:
			return fmt.Errorf("%s: unknown order kind %q", bsvPath, columns[0])
		}
		signal := norm.Key(columns[1])
		if signal == "" {
			continue
		}
		if t.rules[kind] == nil {
			t.rules[kind] = make(map[string][]LinkRule)
		}
		t.rules[kind][signal] = append(t.rules[kind][signal], LinkRule{
			Code:    strings.ToUpper(columns[2]),
			Display: columns[3],
		})
	}
	return nil
}

func (t *Tables) buildKeyLists() {
	t.conditionFuzzyKeys = sortedKeys(len(t.conditions), func(collect func(string)) {
		for key := range t.conditions {
			collect(key)
		}
	})
	t.medicationFuzzyKeys = sortedKeys(len(t.medications), func(collect func(string)) {
		for key := range t.medications {
			collect(key)
		}
	})
	for kind, rules := range t.rules {
		t.ruleKeys[kind] = sortedKeys(len(rules), func(collect func(string)) {
			for key := range rules {
				collect(key)
			}
		})
	}
}

func sortedKeys(capacity int, fill func(collect func(string))) []string {
	keys := make([]string, 0, capacity)
	seen := make(map[string]bool, capacity)
	fill(func(key string) {
		if seen[key] {
			return
		}
		seen[key] = true
		keys = append(keys, key)
	})
	sort.Strings(keys)
	return keys
}

// RulesFor returns the linking rules for an order signal: an exact key match
// first, then the lexically first rule key that contains or is contained by
// the signal.
func (t *Tables) RulesFor(kind types.OrderKind, signal string) []LinkRule {
	kindRules := t.rules[kind]
	if len(kindRules) == 0 || signal == "" {
		return nil
	}
	if rules, ok := kindRules[signal]; ok {
		return rules
	}
	for _, key := range t.ruleKeys[kind] {
		if len(key) < 3 {
			continue
		}
		if strings.Contains(signal, key) || strings.Contains(key, signal) {
			return kindRules[key]
		}
	}
	return nil
}
