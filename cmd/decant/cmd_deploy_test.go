package main

import (
	"testing"

	yamladapter "github.com/ochairo/decant/internal/external-adapters/yaml"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

// Test that a flag value beats both the environment and the config file
func TestMergeOptions_FlagWins(t *testing.T) {
	fileCfg := &yamladapter.Config{
		Provider: "npm",
		Bintray:  yamladapter.BintrayConfig{User: "file-user", Key: "file-key"},
	}
	env := envFrom(map[string]string{
		"BINTRAY_USER": "env-user",
		"BINTRAY_KEY":  "env-key",
	})

	opts := mergeOptions(deployFlags{
		provider: "bintray",
		user:     "flag-user",
		key:      "flag-key",
	}, env, fileCfg)

	if opts.provider != "bintray" {
		t.Errorf("provider = %s, want bintray (flag over file)", opts.provider)
	}
	if opts.bintray.User != "flag-user" {
		t.Errorf("user = %s, want flag-user", opts.bintray.User)
	}
	if opts.bintray.Key != "flag-key" {
		t.Errorf("key = %s, want flag-key", opts.bintray.Key)
	}
}

// Test that the environment beats the config file when no flag is set
func TestMergeOptions_EnvBeatsFile(t *testing.T) {
	fileCfg := &yamladapter.Config{
		Bintray: yamladapter.BintrayConfig{Key: "file-key", Passphrase: "file-pass"},
		Npm:     yamladapter.NpmConfig{APIKey: "file-token", Email: "file@example.com"},
	}
	env := envFrom(map[string]string{
		"BINTRAY_KEY":        "env-key",
		"BINTRAY_PASSPHRASE": "env-pass",
		"NPM_API_KEY":        "env-token",
		"NPM_EMAIL":          "env@example.com",
	})

	opts := mergeOptions(deployFlags{}, env, fileCfg)

	if opts.bintray.Key != "env-key" {
		t.Errorf("key = %s, want env-key", opts.bintray.Key)
	}
	if opts.bintray.Passphrase != "env-pass" {
		t.Errorf("passphrase = %s, want env-pass", opts.bintray.Passphrase)
	}
	if opts.npm.APIKey != "env-token" {
		t.Errorf("npm api key = %s, want env-token", opts.npm.APIKey)
	}
	if opts.npm.Email != "env@example.com" {
		t.Errorf("npm email = %s, want env@example.com", opts.npm.Email)
	}
}

// Test that the config file fills in when neither flag nor env is set
func TestMergeOptions_FileFallback(t *testing.T) {
	fileCfg := &yamladapter.Config{
		Provider: "bintray",
		Bintray: yamladapter.BintrayConfig{
			User: "file-user",
			Key:  "file-key",
			File: "descriptor.json",
			URL:  "https://registry.example.com",
		},
		Npm:  yamladapter.NpmConfig{Access: "public", Tag: "next", PackageDir: "./pkg"},
		Sign: yamladapter.SignConfig{KeyFile: "release.asc", Passphrase: "hunter2"},
	}

	opts := mergeOptions(deployFlags{}, envFrom(nil), fileCfg)

	if opts.provider != "bintray" {
		t.Errorf("provider = %s, want bintray", opts.provider)
	}
	if opts.bintray.User != "file-user" || opts.bintray.Key != "file-key" {
		t.Errorf("bintray credentials = %s/%s, want file values", opts.bintray.User, opts.bintray.Key)
	}
	if opts.bintray.File != "descriptor.json" {
		t.Errorf("file = %s, want descriptor.json", opts.bintray.File)
	}
	if opts.bintray.URL != "https://registry.example.com" {
		t.Errorf("url = %s", opts.bintray.URL)
	}
	if opts.npm.Access != "public" || opts.npm.Tag != "next" || opts.npm.PackageDir != "./pkg" {
		t.Errorf("npm options = %+v, want file values", opts.npm)
	}
	if opts.sign.KeyFile != "release.asc" || opts.sign.Passphrase != "hunter2" {
		t.Errorf("sign = %+v, want file values", opts.sign)
	}
}

// Test that everything unset stays empty
func TestMergeOptions_AllEmpty(t *testing.T) {
	opts := mergeOptions(deployFlags{}, envFrom(nil), &yamladapter.Config{})

	if opts.provider != "" {
		t.Errorf("provider = %s, want empty", opts.provider)
	}
	if opts.bintray.User != "" || opts.npm.APIKey != "" || opts.sign.KeyFile != "" {
		t.Errorf("options not empty: %+v", opts)
	}
}

// Test first-non-empty selection
func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "second", "third"); got != "second" {
		t.Errorf("firstNonEmpty = %s, want second", got)
	}
	if got := firstNonEmpty("", "", ""); got != "" {
		t.Errorf("firstNonEmpty = %s, want empty", got)
	}
	if got := firstNonEmpty("first"); got != "first" {
		t.Errorf("firstNonEmpty = %s, want first", got)
	}
}
