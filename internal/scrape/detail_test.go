package scrape

import (
	"strings"
	"testing"
)

const detailFixture = `
<html><body>
<div id="tab_doelstellingen_idp123">
  <p>De student:<br>• je kan zelfstandig een relationele databank ontwerpen.<br>kort</p>
  <ul>
    <li>Je schrijft onderhoudbare en geteste code.</li>
    <li>Knowledge</li>
    <li>Je schrijft onderhoudbare en geteste code.</li>
    <li>De student&nbsp;past versiebeheer toe in teamverband.</li>
  </ul>
</div>
<div id="tab_inhoud_idp456_content" style="margin: 0" class="tab_content" data-track="x">
  <span class="print_only">Afdrukversie</span>
  <p>Relationele modellen en SQL.</p>
</div>
<div id="tab_inhoud_idp789_content">
  <p>Normalisatie.</p>
</div>
<div id="tab_inhoud_nav">niet-content navigatie</div>
</body></html>`

func TestExtractDetailObjectives(t *testing.T) {
	doc := mustDoc(t, detailFixture)

	d := ExtractDetail(doc)

	want := []string{
		// List items come first in document-order collection; paragraph
		// candidates follow. Heading lines ("De student:", "Knowledge") and
		// the too-short fragment are filtered, duplicates collapse once.
		"Schrijft onderhoudbare en geteste code",
		"Past versiebeheer toe in teamverband",
		"Kan zelfstandig een relationele databank ontwerpen",
	}
	if len(d.Objectives) != len(want) {
		t.Fatalf("objectives: got %v, want %v", d.Objectives, want)
	}
	for i := range want {
		if d.Objectives[i] != want[i] {
			t.Errorf("objective %d: got %q, want %q", i, d.Objectives[i], want[i])
		}
	}
}

func TestExtractDetailLearningContents(t *testing.T) {
	doc := mustDoc(t, detailFixture)

	d := ExtractDetail(doc)

	if d.LearningContents == "" {
		t.Fatal("expected learning contents, got empty")
	}

	// Both _content containers survive, joined with a newline.
	parts := strings.Split(d.LearningContents, "\n")
	if len(parts) != 2 {
		t.Fatalf("fragments: got %d, want 2\n%s", len(parts), d.LearningContents)
	}

	if !strings.Contains(parts[0], "Relationele modellen en SQL.") {
		t.Errorf("first fragment missing body: %s", parts[0])
	}
	if !strings.Contains(parts[1], "Normalisatie.") {
		t.Errorf("second fragment missing body: %s", parts[1])
	}

	// Print-only elements are removed.
	if strings.Contains(d.LearningContents, "Afdrukversie") {
		t.Error("print_only element not removed")
	}

	// Only id and class survive on the container; style and data attributes
	// are stripped.
	if strings.Contains(d.LearningContents, "style=") || strings.Contains(d.LearningContents, "data-track") {
		t.Errorf("disallowed attributes kept: %s", d.LearningContents)
	}
	if !strings.Contains(d.LearningContents, `id="tab_inhoud_idp456_content"`) {
		t.Error("id attribute stripped, want kept")
	}
	if !strings.Contains(d.LearningContents, `class="tab_content"`) {
		t.Error("class attribute stripped, want kept")
	}

	// The navigation div does not match the *_content pattern.
	if strings.Contains(d.LearningContents, "navigatie") {
		t.Error("non-content container extracted")
	}
}

func TestExtractDetailMissingContainers(t *testing.T) {
	doc := mustDoc(t, `<html><body><p>lege pagina</p></body></html>`)

	d := ExtractDetail(doc)
	if len(d.Objectives) != 0 {
		t.Errorf("objectives: got %v, want none", d.Objectives)
	}
	if d.LearningContents != "" {
		t.Errorf("learning contents: got %q, want empty", d.LearningContents)
	}
}

func TestTextWithBreaks(t *testing.T) {
	doc := mustDoc(t, `<p>eerste regel<br>tweede regel<br><b>derde</b> regel</p>`)
	p := doc.Find("p").First()
	if p.Length() == 0 {
		t.Fatal("fixture not parsed")
	}

	got := textWithBreaks(p.Nodes[0])
	want := "eerste regel\ntweede regel\nderde regel"
	if got != want {
		t.Errorf("textWithBreaks = %q, want %q", got, want)
	}
}
