package classify

import (
	"testing"

	"github.com/use-agent/refcheck/models"
)

func TestClassify_TextHeuristics(t *testing.T) {
	c := New(50)

	tests := []struct {
		name string
		view PageView
		want models.Status
	}{
		{
			name: "credit plus amount is valid",
			view: PageView{Text: "You both get $50 in credit"},
			want: models.StatusValid,
		},
		{
			name: "credit alone is not valid",
			view: PageView{Text: "learn about credit cards"},
			want: models.StatusUnknown,
		},
		{
			name: "amount alone is not valid",
			view: PageView{Text: "save $50 today"},
			want: models.StatusUnknown,
		},
		{
			name: "invalid referral code phrase",
			view: PageView{Text: "Sorry, invalid referral code."},
			want: models.StatusInvalid,
		},
		{
			name: "this referral code is invalid phrase",
			view: PageView{Text: "This referral code is invalid"},
			want: models.StatusInvalid,
		},
		{
			name: "phrase match is case-insensitive",
			view: PageView{Text: "INVALID REFERRAL CODE"},
			want: models.StatusInvalid,
		},
		{
			name: "scattered invalid referral code words",
			view: PageView{Text: "the code you entered for this referral program is invalid"},
			want: models.StatusInvalid,
		},
		{
			name: "valid wins over invalid when both match",
			view: PageView{Text: "get $50 credit even though some referral code was invalid"},
			want: models.StatusValid,
		},
		{
			name: "nothing matches",
			view: PageView{Text: "welcome to our homepage"},
			want: models.StatusUnknown,
		},
		{
			name: "empty page",
			view: PageView{},
			want: models.StatusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.view); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassify_TitleFallback(t *testing.T) {
	c := New(50)

	view := PageView{
		Text:  "nothing helpful here",
		Title: "Invalid Referral - Example",
	}
	if got := c.Classify(view); got != models.StatusInvalid {
		t.Errorf("Classify() = %q, want %q", got, models.StatusInvalid)
	}

	// Text heuristics run before the title is even looked at.
	view.Text = "this referral code is invalid"
	view.Title = "Welcome"
	if got := c.Classify(view); got != models.StatusInvalid {
		t.Errorf("Classify() = %q, want %q", got, models.StatusInvalid)
	}
}

func TestClassify_ElementScan(t *testing.T) {
	c := New(50)

	tests := []struct {
		name string
		view PageView
		want models.Status
	}{
		{
			name: "element with invalid phrase",
			view: PageView{Elements: []string{"Sign up", "Invalid referral code"}},
			want: models.StatusInvalid,
		},
		{
			name: "element with credit and configured amount",
			view: PageView{Elements: []string{"Claim your $50 credit"}},
			want: models.StatusValid,
		},
		{
			name: "element with credit and twenty dollars",
			view: PageView{Elements: []string{"Claim your $20 credit"}},
			want: models.StatusValid,
		},
		{
			name: "first matching element wins",
			view: PageView{Elements: []string{"Invalid referral code", "$50 credit"}},
			want: models.StatusInvalid,
		},
		{
			name: "element with credit but no amount",
			view: PageView{Elements: []string{"credit where credit is due"}},
			want: models.StatusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.view); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

// The primary text check only accepts the configured amount; the literal
// "$20" is honored nowhere but the element scan.
func TestClassify_TwentyDollarAsymmetry(t *testing.T) {
	c := New(50)

	text := "sign up and get $20 in credit"

	if got := c.Classify(PageView{Text: text}); got != models.StatusUnknown {
		t.Errorf("primary text check accepted $20: got %q, want %q", got, models.StatusUnknown)
	}
	if got := c.Classify(PageView{Elements: []string{text}}); got != models.StatusValid {
		t.Errorf("element scan rejected $20: got %q, want %q", got, models.StatusValid)
	}
}

func TestClassify_ConfiguredAmount(t *testing.T) {
	c := New(100)

	if got := c.Classify(PageView{Text: "you get $100 of credit"}); got != models.StatusValid {
		t.Errorf("Classify() = %q, want %q", got, models.StatusValid)
	}
	if got := c.Classify(PageView{Text: "you get $50 of credit"}); got != models.StatusUnknown {
		t.Errorf("amount 100 classifier accepted $50: got %q", got)
	}
}
