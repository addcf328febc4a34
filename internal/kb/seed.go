package kb

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// SeedArticle is one entry of a YAML seed file.
type SeedArticle struct {
	Title   string   `yaml:"title"`
	Content string   `yaml:"content"`
	Tags    []string `yaml:"tags"`
}

type seedFile struct {
	Articles []SeedArticle `yaml:"articles"`
}

// LoadSeedFile parses a YAML seed file into articles (without identities;
// persistence assigns those).
func LoadSeedFile(path string) ([]domain.KnowledgeArticle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read kb seed file: %w", err)
	}
	var parsed seedFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse kb seed file: %w", err)
	}
	articles := make([]domain.KnowledgeArticle, 0, len(parsed.Articles))
	for _, entry := range parsed.Articles {
		if entry.Title == "" || entry.Content == "" {
			return nil, fmt.Errorf("kb seed entry missing title or content")
		}
		articles = append(articles, domain.KnowledgeArticle{
			Title:   entry.Title,
			Content: entry.Content,
			Tags:    entry.Tags,
		})
	}
	return articles, nil
}

// DefaultSeed returns the built-in starter articles used when no seed file is
// configured and the knowledge base is empty.
func DefaultSeed() []domain.KnowledgeArticle {
	return []domain.KnowledgeArticle{
		{
			Title:   "Reset Domain Password",
			Content: "Use Ctrl+Alt+Del -> Change a password. If offsite, connect via VPN first. If locked, contact IT.",
			Tags:    []string{"password", "account", "login"},
		},
		{
			Title:   "VPN Access and Setup",
			Content: "Install FortiClient/AnyConnect. Use your AD credentials. For MFA, approve push in Authenticator.",
			Tags:    []string{"vpn", "remote", "mfa"},
		},
		{
			Title:   "Outlook Email Configuration",
			Content: "Open Outlook -> Add Account -> Enter email -> Choose Microsoft 365. Restart Outlook if prompted.",
			Tags:    []string{"outlook", "email", "office"},
		},
		{
			Title:   "Printer Not Working",
			Content: "Check power and network. Reinstall driver from Company Portal. Use IP printing if auto-discovery fails.",
			Tags:    []string{"printer", "hardware"},
		},
	}
}
