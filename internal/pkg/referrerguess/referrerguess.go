// Package referrerguess infers a referrer from the user agent when a visit
// arrives without a Referer header, which is common for in-app browsers.
package referrerguess

import (
	"embed"
	"strings"
	"sync"

	"go.elara.ws/pcre"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yml
var ruleFiles embed.FS

// Rule maps user agent fragments to a canonical referrer URL. Keywords are
// matched case-insensitively as substrings; the optional regex is a PCRE
// pattern for fragments a plain substring cannot express.
type Rule struct {
	Referrer string   `yaml:"referrer"`
	Keywords []string `yaml:"keywords"`
	Regex    string   `yaml:"regex"`
}

type regexCache struct {
	compiled map[string]*pcre.Regexp
	mutex    sync.RWMutex
}

func (rc *regexCache) get(pattern string) (*pcre.Regexp, error) {
	rc.mutex.RLock()
	if regex, exists := rc.compiled[pattern]; exists {
		rc.mutex.RUnlock()
		return regex, nil
	}
	rc.mutex.RUnlock()

	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	if regex, exists := rc.compiled[pattern]; exists {
		return regex, nil
	}

	regex, err := pcre.Compile(pattern)
	if err != nil {
		return nil, err
	}
	rc.compiled[pattern] = regex
	return regex, nil
}

type matcher struct {
	rules []Rule
	cache *regexCache
}

var (
	instance *matcher
	once     sync.Once
)

func getMatcher() *matcher {
	once.Do(func() {
		instance = &matcher{
			cache: &regexCache{compiled: make(map[string]*pcre.Regexp)},
		}
		if data, err := ruleFiles.ReadFile("rules.yml"); err == nil {
			var rules []Rule
			if err := yaml.Unmarshal(data, &rules); err == nil {
				instance.rules = rules
			}
		}
	})
	return instance
}

// InferReferrer returns currentReferrer unchanged when it is non-blank.
// Otherwise it scans the user agent against the rule set and returns the
// first matching rule's referrer, or the blank referrer when nothing matches.
func InferReferrer(userAgent, currentReferrer string) string {
	if currentReferrer != "" {
		return currentReferrer
	}
	if userAgent == "" {
		return currentReferrer
	}

	m := getMatcher()
	uaLower := strings.ToLower(userAgent)

	for _, rule := range m.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(uaLower, strings.ToLower(keyword)) {
				return rule.Referrer
			}
		}
		if rule.Regex != "" {
			if regex, err := m.cache.get(rule.Regex); err == nil {
				if regex.MatchString(userAgent) {
					return rule.Referrer
				}
			}
		}
	}

	return currentReferrer
}
