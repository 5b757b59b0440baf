package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// variantsFile is the on-disk shape of the site-variants YAML:
//
//	sites:
//	  dmarc.example.net:
//	    title: DMARC Checker
//	    author: Jane Doe
//	    author_url: https://jane.example
type variantsFile struct {
	Sites map[string]Site `yaml:"sites"`
}

// loadVariants reads per-host branding overrides. Hostnames are lowercased;
// empty fields inherit nothing and render as-is, so variants should be
// complete.
func loadVariants(path string) (map[string]Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site variants %s: %w", path, err)
	}
	var f variantsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse site variants %s: %w", path, err)
	}
	variants := make(map[string]Site, len(f.Sites))
	for host, site := range f.Sites {
		if site.Title == "" {
			return nil, fmt.Errorf("site variant %q has no title", host)
		}
		variants[strings.ToLower(host)] = site
	}
	return variants, nil
}
