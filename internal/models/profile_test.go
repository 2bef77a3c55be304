package models

import "testing"

func TestStudentProfile_MissingSections(t *testing.T) {
	t.Run("EmptyProfile", func(t *testing.T) {
		p := &StudentProfile{}

		missing := p.MissingSections()
		if len(missing) != 4 {
			t.Fatalf("Expected 4 missing sections, got %d", len(missing))
		}
		if p.CompletionPercent() != 0 {
			t.Errorf("Expected 0%% completion, got %d", p.CompletionPercent())
		}
	})

	t.Run("PartialProfile", func(t *testing.T) {
		p := &StudentProfile{
			Personal: &PersonalInformation{FatherName: "Test"},
			Contact:  &ContactInformation{City: "Lahore"},
		}

		missing := p.MissingSections()
		if len(missing) != 2 {
			t.Fatalf("Expected 2 missing sections, got %d", len(missing))
		}
		for _, section := range missing {
			if section != SectionEducation && section != SectionMedical {
				t.Errorf("Unexpected missing section %q", section)
			}
		}
		if p.CompletionPercent() != 50 {
			t.Errorf("Expected 50%% completion, got %d", p.CompletionPercent())
		}
	})

	t.Run("CompleteProfile", func(t *testing.T) {
		p := &StudentProfile{
			Personal:           &PersonalInformation{},
			Contact:            &ContactInformation{},
			EducationalRecords: []EducationalBackground{{}},
			Medical:            &MedicalInformation{},
		}

		if missing := p.MissingSections(); len(missing) != 0 {
			t.Errorf("Expected no missing sections, got %v", missing)
		}
		if p.CompletionPercent() != 100 {
			t.Errorf("Expected 100%% completion, got %d", p.CompletionPercent())
		}
	})
}

func TestEducationalBackground_ComputePercentage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		obtained int
		want     float64
	}{
		{"FullMarks", 1100, 1100, 100},
		{"TypicalResult", 1100, 910, 82.73},
		{"ZeroObtained", 1100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &EducationalBackground{TotalMarks: tt.total, ObtainedMarks: tt.obtained}
			e.ComputePercentage()
			if e.Percentage != tt.want {
				t.Errorf("Expected %.2f%%, got %.2f%%", tt.want, e.Percentage)
			}
		})
	}

	t.Run("ZeroTotalLeavesPercentage", func(t *testing.T) {
		e := &EducationalBackground{TotalMarks: 0, ObtainedMarks: 500, Percentage: 42.5}
		e.ComputePercentage()
		if e.Percentage != 42.5 {
			t.Errorf("Percentage should be untouched for zero total, got %.2f", e.Percentage)
		}
	})
}
