package eslint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wonderfulspam/lintcompat/pkg/effective"
	"github.com/wonderfulspam/lintcompat/pkg/ruleset"
)

var flatConfigNames = map[string]bool{
	"eslint.config.js":  true,
	"eslint.config.mjs": true,
	"eslint.config.cjs": true,
	"eslint.config.ts":  true,
	"eslint.config.mts": true,
	"eslint.config.cts": true,
}

// IsFlatConfig reports whether path names a flat config file.
func IsFlatConfig(path string) bool {
	return flatConfigNames[filepath.Base(path)]
}

// ParsePrintConfig decodes the output of `eslint --print-config`. Flat output
// carries languageOptions directly; legacy output spreads them over
// parserOptions and globals.
func ParsePrintConfig(data []byte, flat bool) (*effective.Config, error) {
	if strings.HasPrefix(strings.TrimSpace(string(data)), "undefined") {
		return nil, ErrNotLinted
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding print-config output: %w", err)
	}

	rawRules, err := mapping(raw, "rules")
	if err != nil {
		return nil, err
	}
	rules, err := ruleset.Parse(rawRules)
	if err != nil {
		return nil, err
	}
	settings, err := mapping(raw, "settings")
	if err != nil {
		return nil, err
	}

	cfg := &effective.Config{Rules: rules, Settings: settings}

	var opts effective.LanguageOptions
	if flat {
		langOpts, err := mapping(raw, "languageOptions")
		if err != nil {
			return nil, err
		}
		if opts, err = languageOptions(langOpts, langOpts); err != nil {
			return nil, err
		}
	} else {
		parserOpts, err := mapping(raw, "parserOptions")
		if err != nil {
			return nil, err
		}
		if opts, err = languageOptions(parserOpts, raw); err != nil {
			return nil, err
		}
	}
	cfg.LanguageOptions = opts

	return cfg, nil
}

// languageOptions reads ecmaVersion and sourceType from versionSrc and
// globals and parserOptions from globalsSrc.
func languageOptions(versionSrc, globalsSrc map[string]any) (effective.LanguageOptions, error) {
	var opts effective.LanguageOptions
	if versionSrc != nil {
		opts.EcmaVersion = versionSrc["ecmaVersion"]
		if st, ok := versionSrc["sourceType"]; ok {
			s, ok := st.(string)
			if !ok {
				return opts, fmt.Errorf("sourceType: expected string, got %T", st)
			}
			opts.SourceType = s
		}
	}
	if globalsSrc != nil {
		var err error
		if opts.Globals, err = mapping(globalsSrc, "globals"); err != nil {
			return opts, err
		}
		if opts.ParserOptions, err = mapping(globalsSrc, "parserOptions"); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func mapping(raw map[string]any, key string) (map[string]any, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected object, got %T", key, v)
	}
	return m, nil
}
