package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain digits", input: "987654321", want: "987654321"},
		{name: "with spaces", input: "987 654 321", want: "987654321"},
		{name: "with dashes", input: "987-654-321", want: "987654321"},
		{name: "with country code", input: "+51 987 654 321", want: "51987654321"},
		{name: "leading and trailing spaces", input: "  987654321  ", want: "987654321"},
		{name: "letters dropped", input: "phone: 98765x4321", want: "987654321"},
		{name: "non-ascii digits dropped", input: "٩٨٧", want: ""},
		{name: "empty string", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"987654321", true},
		{"(987) 654-321", true},
		{"98765432", false},
		{"9876543210", false},
		{"+51 987 654 321", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidPhone(tt.input); got != tt.want {
			t.Errorf("IsValidPhone(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	once := NormalizePhone(" 987-654-321 ")
	if twice := NormalizePhone(once); twice != once {
		t.Errorf("NormalizePhone not idempotent: %q then %q", once, twice)
	}
}
