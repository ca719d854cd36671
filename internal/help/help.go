// Package help loads console help topics from YAML.
package help

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Topic represents a single help topic with aliases and text.
type Topic struct {
	Aliases []string `yaml:"aliases"`
	Usage   string   `yaml:"usage"`
	Text    string   `yaml:"text"`
}

// HelpData represents the structure of the help.yaml file.
type HelpData struct {
	Topics      map[string]Topic `yaml:"topics"`
	GeneralHelp string           `yaml:"general_help"`
}

// Help provides help text lookup. It is read-only after Load.
type Help struct {
	data        *HelpData
	aliasLookup map[string]string // maps alias -> topic name
}

// Load loads help data from a YAML file.
func Load(path string) (*Help, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read help file: %w", err)
	}

	var helpData HelpData
	if err := yaml.Unmarshal(data, &helpData); err != nil {
		return nil, fmt.Errorf("failed to parse help file: %w", err)
	}

	h := &Help{
		data:        &helpData,
		aliasLookup: make(map[string]string),
	}

	// A topic always answers to its own name.
	for topicName, topic := range helpData.Topics {
		h.aliasLookup[strings.ToLower(topicName)] = topicName
		for _, alias := range topic.Aliases {
			h.aliasLookup[strings.ToLower(alias)] = topicName
		}
	}

	return h, nil
}

// GetTopic returns help text for a given topic/alias, prefixed by its usage
// line. Returns empty string if topic not found.
func (h *Help) GetTopic(topic string) string {
	topicName, ok := h.aliasLookup[strings.ToLower(topic)]
	if !ok {
		return ""
	}
	t := h.data.Topics[topicName]

	text := strings.TrimSpace(t.Text)
	if t.Usage != "" {
		text = "Usage: " + strings.TrimSpace(t.Usage) + "\n" + text
	}
	return text
}

// Topics returns the topic names in order.
func (h *Help) Topics() []string {
	names := make([]string, 0, len(h.data.Topics))
	for name := range h.data.Topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetHelpText returns help for a topic, or general help followed by the
// topic list if topic is empty.
func (h *Help) GetHelpText(topic string) string {
	if topic == "" {
		help := strings.TrimSpace(h.data.GeneralHelp)
		if topics := h.Topics(); len(topics) > 0 {
			help += "\nTopics: " + strings.Join(topics, ", ")
		}
		return help
	}

	text := h.GetTopic(topic)
	if text == "" {
		return fmt.Sprintf("No help available for '%s'.\nType 'help' for a list of commands.", topic)
	}
	return text
}
