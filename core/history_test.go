package core

import "testing"

func TestFingerprint_Equal(t *testing.T) {
	base := Fingerprint{
		Degree:         "B.Tech",
		Specialization: "Computer Science",
		CGPA:           "8.5",
		Certifications: []string{"AWS", "Python"},
	}

	tests := []struct {
		name  string
		other Fingerprint
		want  bool
	}{
		{
			name: "identical",
			other: Fingerprint{
				Degree: "B.Tech", Specialization: "Computer Science",
				CGPA: "8.5", Certifications: []string{"AWS", "Python"},
			},
			want: true,
		},
		{
			name: "cgpa differs",
			other: Fingerprint{
				Degree: "B.Tech", Specialization: "Computer Science",
				CGPA: "8.6", Certifications: []string{"AWS", "Python"},
			},
			want: false,
		},
		{
			name: "certification order differs",
			other: Fingerprint{
				Degree: "B.Tech", Specialization: "Computer Science",
				CGPA: "8.5", Certifications: []string{"Python", "AWS"},
			},
			want: false,
		},
		{
			name: "certification count differs",
			other: Fingerprint{
				Degree: "B.Tech", Specialization: "Computer Science",
				CGPA: "8.5", Certifications: []string{"AWS"},
			},
			want: false,
		},
		{
			name: "degree differs",
			other: Fingerprint{
				Degree: "M.Tech", Specialization: "Computer Science",
				CGPA: "8.5", Certifications: []string{"AWS", "Python"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Equal(tt.other); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfile_Fingerprint(t *testing.T) {
	p := NewProfile("B.Tech", "CSE")
	p.CGPA = "9.1"
	p.Certifications = []string{"AWS"}

	fp := p.Fingerprint()
	if fp.Degree != "B.Tech" || fp.CGPA != "9.1" {
		t.Errorf("fingerprint = %+v", fp)
	}

	// 指纹持有证书副本：档案后续修改不影响已取出的指纹
	p.Certifications[0] = "GCP"
	if fp.Certifications[0] != "AWS" {
		t.Error("fingerprint must copy certifications")
	}
}

func TestPredictionEntry_TopConfidence(t *testing.T) {
	e := &PredictionEntry{
		Predictions: []RolePrediction{
			{Role: "Software Engineer", Confidence: 57.14},
			{Role: "Data Analyst", Confidence: 42.86},
		},
	}
	if got := e.TopConfidence(); got != 57.14 {
		t.Errorf("TopConfidence() = %v, want 57.14", got)
	}
	empty := &PredictionEntry{}
	if got := empty.TopConfidence(); got != 0 {
		t.Errorf("TopConfidence() = %v, want 0", got)
	}
}
