package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/fsdevblog/remit-ledger/internal/commission"
	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/fsdevblog/remit-ledger/internal/repository/repoargs"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PolicyFile содержимое файла политики комиссий. Суммы записываются строками, чтобы не терять точность.
type PolicyFile struct {
	Defaults map[domain.TransferKind]RuleFile `yaml:"defaults"`
	Tiers    []TierFile                       `yaml:"tiers"`
}

// RuleFile переопределение правила вида перевода. Не указанное в файле поле берется из commission.DefaultPolicy.
type RuleFile struct {
	DefaultPercent *string `yaml:"default_percent"`
	RecipientShare *string `yaml:"recipient_share"`
}

type TierFile struct {
	Kind        domain.TransferKind `yaml:"kind"`
	Origin      *string             `yaml:"origin"`
	Destination *string             `yaml:"destination"`
	Currency    string              `yaml:"currency"`
	MinAmount   string              `yaml:"min_amount"`
	MaxAmount   *string             `yaml:"max_amount"`
	Commission  *string             `yaml:"commission"`
	PerMille    *string             `yaml:"per_mille"`
}

// Policy правила по умолчанию и начальный набор тарифов.
type Policy struct {
	Rules commission.Policy
	Seed  []repoargs.CreateTier
}

// LoadPolicy читает файл политики комиссий. Пустой path означает политику по умолчанию без начальных тарифов.
func LoadPolicy(path string) (*Policy, error) {
	if path == "" {
		return &Policy{Rules: commission.DefaultPolicy()}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	return ParsePolicy(data)
}

func ParsePolicy(data []byte) (*Policy, error) {
	var file PolicyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	rules := commission.DefaultPolicy()
	for kind, override := range file.Defaults {
		if !kind.IsValid() {
			return nil, fmt.Errorf("parse policy: unknown transfer kind `%s`", kind)
		}
		rule, err := override.apply(rules[kind])
		if err != nil {
			return nil, fmt.Errorf("parse policy: %s %w", kind, err)
		}
		rules[kind] = rule
	}

	seed := make([]repoargs.CreateTier, 0, len(file.Tiers))
	for i, tier := range file.Tiers {
		args, tierErr := tier.toArgs()
		if tierErr != nil {
			return nil, fmt.Errorf("parse policy: tier #%d: %w", i+1, tierErr)
		}
		seed = append(seed, args)
	}

	return &Policy{
		Rules: rules,
		Seed:  seed,
	}, nil
}

func (r RuleFile) apply(rule commission.Rule) (commission.Rule, error) {
	for _, f := range []struct {
		name string
		src  *string
		dst  *decimal.Decimal
	}{
		{"default_percent", r.DefaultPercent, &rule.DefaultPercent},
		{"recipient_share", r.RecipientShare, &rule.RecipientShare},
	} {
		if f.src == nil {
			continue
		}
		value, err := decimal.NewFromString(*f.src)
		if err != nil {
			return commission.Rule{}, fmt.Errorf("%s: invalid decimal `%s`: %w", f.name, *f.src, err)
		}
		*f.dst = value
	}
	if rule.DefaultPercent.IsNegative() || rule.RecipientShare.IsNegative() ||
		rule.RecipientShare.GreaterThan(decimal.NewFromInt(1)) {
		return commission.Rule{}, errors.New("rule is out of range")
	}
	return rule, nil
}

func (t TierFile) toArgs() (repoargs.CreateTier, error) {
	minAmount, err := parseDecimal(t.MinAmount)
	if err != nil {
		return repoargs.CreateTier{}, fmt.Errorf("min_amount: %w", err)
	}
	args := repoargs.CreateTier{
		Kind:        t.Kind,
		Origin:      t.Origin,
		Destination: t.Destination,
		Currency:    t.Currency,
		MinAmount:   minAmount,
	}
	for _, f := range []struct {
		name string
		src  *string
		dst  *decimal.NullDecimal
	}{
		{"max_amount", t.MaxAmount, &args.MaxAmount},
		{"commission", t.Commission, &args.Commission},
		{"per_mille", t.PerMille, &args.PerMille},
	} {
		if f.src == nil {
			continue
		}
		value, parseErr := decimal.NewFromString(*f.src)
		if parseErr != nil {
			return repoargs.CreateTier{}, fmt.Errorf("%s: %w", f.name, parseErr)
		}
		*f.dst = decimal.NewNullDecimal(value)
	}
	return args, nil
}

// parseDecimal пустая строка читается как ноль.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal `%s`: %w", s, err)
	}
	return d, nil
}
