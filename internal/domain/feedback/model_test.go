package feedback

import "testing"

func TestFeedback_Validate(t *testing.T) {
	tests := []struct {
		name    string
		fb      Feedback
		wantErr error
	}{
		{"valid", Feedback{Message: "Great sermon", Rating: 5}, nil},
		{"empty", Feedback{Message: "", Rating: 3}, ErrEmptyMessage},
		{"rating low", Feedback{Message: "ok", Rating: 0}, ErrInvalidRating},
		{"rating high", Feedback{Message: "ok", Rating: 6}, ErrInvalidRating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fb.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFeedback_Author(t *testing.T) {
	f := Feedback{Name: "Esi", Anonymous: true}
	if f.Author() != "Anonymous" {
		t.Errorf("Author() = %q", f.Author())
	}
	f.Anonymous = false
	if f.Author() != "Esi" {
		t.Errorf("Author() = %q", f.Author())
	}
}
