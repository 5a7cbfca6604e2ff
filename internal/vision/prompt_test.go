package vision

import (
	"strings"
	"testing"

	"casefile-backend/internal/detector"
)

func TestBuildPromptDeterministic(t *testing.T) {
	verdict := detector.FromAIScore(87.5, "test-detector")
	meta := map[string]string{
		"Make":             "Canon",
		"Model":            "EOS R5",
		"DateTimeOriginal": "2024:03:01 10:30:00",
		"Software":         "Adobe Photoshop 25.0",
		"GPSLatitude":      "40.712800",
		"GPSLongitude":     "-74.006000",
	}
	first := BuildPrompt(&verdict, meta)
	for i := 0; i < 20; i++ {
		if got := BuildPrompt(&verdict, meta); got != first {
			t.Fatalf("prompt differs between calls for identical input")
		}
	}
}

func TestBuildPromptDetectorContext(t *testing.T) {
	verdict := detector.FromAIScore(90, "sightengine-genai")
	prompt := BuildPrompt(&verdict, nil)

	for _, want := range []string{
		"Senior Computer Vision Forensic Analyst",
		"FINAL ANALYST",
		"TECHNICAL DETECTOR ANALYSIS:",
		"Verdict: AI-GENERATED",
		"AI Generated Probability: 90.0%",
		"Real Photo Probability: 10.0%",
		"Confidence: 90.0%",
		"PRIMARY REFERENCE",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, detectorUnavailableNotice) {
		t.Errorf("unavailable notice present despite verdict")
	}
}

func TestBuildPromptDetectorUnavailable(t *testing.T) {
	for name, verdict := range map[string]*detector.Verdict{
		"nil verdict": nil,
		"unavailable": func() *detector.Verdict {
			v := detector.Unavailable("x")
			return &v
		}(),
	} {
		t.Run(name, func(t *testing.T) {
			prompt := BuildPrompt(verdict, nil)
			if !strings.Contains(prompt, detectorUnavailableNotice) {
				t.Fatalf("missing unavailable notice")
			}
			if strings.Contains(prompt, "TECHNICAL DETECTOR ANALYSIS:") {
				t.Errorf("detector block present despite no verdict")
			}
		})
	}
}

func TestBuildPromptNoMetadataWarning(t *testing.T) {
	prompt := BuildPrompt(nil, nil)
	if !strings.Contains(prompt, noMetadataWarning) {
		t.Fatalf("missing no-metadata warning")
	}
	for _, want := range []string{
		"strips metadata",
		"AI-generated images typically lack camera metadata",
		"deliberately sanitized",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("warning missing cause %q", want)
		}
	}
}

func TestBuildPromptMetadataRendering(t *testing.T) {
	prompt := BuildPrompt(nil, map[string]string{"Make": "Apple", "Model": "iPhone 15 Pro"})
	if !strings.Contains(prompt, "- Camera: Apple iPhone 15 Pro") {
		t.Errorf("camera line missing or wrong:\n%s", prompt)
	}
	for _, absent := range []string{"- Date Taken:", "- Software:", "- GPS Location:"} {
		if strings.Contains(prompt, absent) {
			t.Errorf("unexpected line %q with partial metadata", absent)
		}
	}
	if strings.Contains(prompt, noMetadataWarning) {
		t.Errorf("no-metadata warning present despite camera fields")
	}
}

func TestBuildPromptSoftwareNote(t *testing.T) {
	prompt := BuildPrompt(nil, map[string]string{"Software": "GIMP 2.10"})
	if !strings.Contains(prompt, "- Software: GIMP 2.10") {
		t.Fatalf("software line missing")
	}
	if !strings.Contains(prompt, "image may have been edited") {
		t.Errorf("editing note missing alongside Software field")
	}
}

func TestBuildPromptFixedSections(t *testing.T) {
	prompt := BuildPrompt(nil, nil)
	sections := []string{
		"Senior Computer Vision Forensic Analyst",
		"Your Task:",
		"Rules:",
		"JSON Schema:",
		"Focus on:",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(prompt, s)
		if idx < 0 {
			t.Fatalf("section %q missing", s)
		}
		if idx < last {
			t.Fatalf("section %q out of order", s)
		}
		last = idx
	}
	for _, want := range []string{
		"Output ONLY valid JSON.",
		"Hands and fingers",
		"Lighting and shadow consistency",
		"Text coherence",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
