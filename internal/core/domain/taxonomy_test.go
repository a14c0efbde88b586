package domain

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Category 0", "category-0"},
		{"Go", "go"},
		{"Hot Takes", "hot-takes"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"Multiple---separators__here", "multiple-separators-here"},
		{"MixedCASE Words", "mixedcase-words"},
		{"números y acentos", "números-y-acentos"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Slugify(tc.name); got != tc.want {
			t.Errorf("Slugify(%q): want %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	if Slugify("Some Name") != Slugify("Some Name") {
		t.Error("Slugify must be deterministic for a given name")
	}
}

func TestUsernameFromEmail(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"alice@example.com", "alice"},
		{"bob.smith@example.com", "bob.smith"},
		{"noat", "noat"},
	}
	for _, tc := range cases {
		if got := UsernameFromEmail(tc.email); got != tc.want {
			t.Errorf("UsernameFromEmail(%q): want %q, got %q", tc.email, tc.want, got)
		}
	}
}

func TestCodename(t *testing.T) {
	if got := Codename(ActionChange, ResourcePost); got != "change_post" {
		t.Errorf("want change_post, got %q", got)
	}
	if got := Codename(ActionView, ResourceComment); got != "view_comment" {
		t.Errorf("want view_comment, got %q", got)
	}
}

func TestResourceValid(t *testing.T) {
	for _, r := range []Resource{ResourcePost, ResourceComment, ResourceProfile} {
		if !r.Valid() {
			t.Errorf("%s must be valid", r)
		}
	}
	if Resource("shipment").Valid() {
		t.Error("unknown resource must not validate")
	}
}
