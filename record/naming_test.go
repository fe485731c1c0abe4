package record

import "testing"

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Name", "name"},
		{"UserAccount", "user_account"},
		{"UserID", "user_id"},
		{"HTTPServer", "http_server"},
		{"X", "x"},
		{"", ""},
		{"already_snake", "already_snake"},
	}
	for _, tt := range tests {
		if got := ToSnakeCase(tt.in); got != tt.want {
			t.Errorf("ToSnakeCase(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"user_account", "UserAccount"},
		{"user-account", "UserAccount"},
		{"name", "Name"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ToPascalCase(tt.in); got != tt.want {
			t.Errorf("ToPascalCase(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
