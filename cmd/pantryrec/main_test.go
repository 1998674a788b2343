package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rushteam/pantryrec/core"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"vocab.txt": "onion\ngarlic\nrice\n",
		"recipes.csv": "id,name,Cuisine_Tags,replaced_ingredients,steps,cluster_3\n" +
			"R1,onion rice,\"['italian']\",\"['onion', 'rice']\",\"['cook']\",0\n" +
			"R2,garlic bread,\"['italian']\",\"['garlic']\",\"['bake']\",0\n" +
			"R3,aglio,\"['italian']\",\"['onion', 'garlic']\",\"['fry', 'serve']\",0.0\n" +
			"R4,pad thai,\"['thai']\",\"['rice']\",\"['wok']\",1\n",
		"clusters_3.json": `{"0": ["italian"], "1": ["thai"]}`,
		"vectorizer.json": `{"vocabulary": {"onion": 0, "garlic": 1, "rice": 2}, "idf": [1, 1, 1]}`,
		"classifier.json": `{"classes": ["italian", "thai"], "coef": [[-1, -1, 1]], "intercept": [0]}`,
	})
	cfg := fmt.Sprintf(`
log:
  level: error
data:
  dir: %[1]s
  vocabulary: vocab.txt
  recipes: recipes.csv
  cluster_map_pattern: clusters_%%d.json
model:
  vectorizer: %[1]s/vectorizer.json
  classifier: %[1]s/classifier.json
`, dir)
	writeFiles(t, dir, map[string]string{"pantryrec.yaml": cfg})
	return filepath.Join(dir, "pantryrec.yaml")
}

func TestRunInteractive(t *testing.T) {
	cfgPath := fixture(t)
	today := time.Now()
	input := fmt.Sprintf("3\nonions;%s\ngarlic;%s\nmilk;2001-01-01\n\nno\nyes\n",
		today.AddDate(0, 0, 2).Format("2006-01-02"),
		today.AddDate(0, 0, 10).Format("2006-01-02"))

	var out bytes.Buffer
	if err := run([]string{"--config", cfgPath}, strings.NewReader(input), &out); err != nil {
		t.Fatalf("run() error = %v\n%s", err, out.String())
	}

	got := out.String()
	for _, want := range []string{
		`Ignored "milk"`,
		"Use first: onion, garlic",
		"Your pantry leans italian.",
		"Recipe ID: R3",
		"Recipe ID: R1",
		"Enjoy your onion rice!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "Recipe ID: R3") > strings.Index(got, "Recipe ID: R1") {
		t.Errorf("R3 should be offered before R1:\n%s", got)
	}
	if strings.Contains(got, "Recipe ID: R4") {
		t.Errorf("recipe from another cluster offered:\n%s", got)
	}
}

func TestRunInteractiveNothingAccepted(t *testing.T) {
	cfgPath := fixture(t)
	input := fmt.Sprintf("3\nrice;%s\n\nno\nno\nno\n", time.Now().Format("2006-01-02"))

	var out bytes.Buffer
	if err := run([]string{"--config", cfgPath}, strings.NewReader(input), &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), "That's all the suggestions for today.") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestRunEmptyPantry(t *testing.T) {
	cfgPath := fixture(t)
	var out bytes.Buffer
	err := run([]string{"--config", cfgPath}, strings.NewReader("3\n\n"), &out)
	if !core.IsValidation(err) {
		t.Errorf("run() error = %v, want validation error", err)
	}
}

func TestRunPublishRequiresRedis(t *testing.T) {
	cfgPath := fixture(t)
	err := run([]string{"--config", cfgPath, "--publish"}, strings.NewReader(""), &bytes.Buffer{})
	if !core.IsConfiguration(err) {
		t.Errorf("run(--publish) error = %v, want configuration error", err)
	}
}

func TestRunBadConfig(t *testing.T) {
	err := run([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, strings.NewReader(""), &bytes.Buffer{})
	if !core.IsConfiguration(err) {
		t.Errorf("run() error = %v, want configuration error", err)
	}
}
