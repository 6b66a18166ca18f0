package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/puzpuzpuz/xsync"
	"github.com/rocketman2178/healthrocket-backend/internal/entity"
	"github.com/rocketman2178/healthrocket-backend/internal/repository"
)

// ChallengeSpec is the kind-specific payload of a challenge definition.
type ChallengeSpec struct {
	Actions     []string `mapstructure:"actions"`
	Description string   `mapstructure:"description"`
}

// QuestSpec names the sub-requirements a quest aggregates. The challenge
// part weighs 60 percent of quest progress, the boost part 40.
type QuestSpec struct {
	ChallengesRequired int `mapstructure:"challenges_required"`
	BoostsRequired     int `mapstructure:"boosts_required"`
}

type ContestSpec struct {
	Metric string `mapstructure:"metric"`
	Device string `mapstructure:"device"`
}

// Catalog is the read-only index over activity definitions, loaded once at
// startup. Lookups are O(1); list methods return shared slices that callers
// must not mutate.
type Catalog struct {
	byID         *xsync.MapOf[string, *entity.ActivityDefinition]
	byKind       map[entity.ActivityKind][]*entity.ActivityDefinition
	byCategory   map[string][]*entity.ActivityDefinition
	tierByCat    map[string]map[int][]*entity.ActivityDefinition
	foundationOf map[string]*entity.ActivityDefinition
	all          []*entity.ActivityDefinition
}

func Load(ctx context.Context, activityRepo repository.ActivityRepository) (*Catalog, error) {
	defs, err := activityRepo.GetDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		byID:         xsync.NewMapOf[*entity.ActivityDefinition](),
		byKind:       make(map[entity.ActivityKind][]*entity.ActivityDefinition),
		byCategory:   make(map[string][]*entity.ActivityDefinition),
		tierByCat:    make(map[string]map[int][]*entity.ActivityDefinition),
		foundationOf: make(map[string]*entity.ActivityDefinition),
	}

	for i := range defs {
		def := &defs[i]
		if err := validate(def); err != nil {
			return nil, fmt.Errorf("invalid definition %s: %w", def.ID, err)
		}

		c.byID.Store(def.ID, def)
		c.byKind[def.Kind] = append(c.byKind[def.Kind], def)
		c.byCategory[def.Category] = append(c.byCategory[def.Category], def)

		if c.tierByCat[def.Category] == nil {
			c.tierByCat[def.Category] = make(map[int][]*entity.ActivityDefinition)
		}
		c.tierByCat[def.Category][def.Tier] = append(c.tierByCat[def.Category][def.Tier], def)

		if def.Kind == entity.KindChallenge && def.Tier == 0 {
			c.foundationOf[def.Category] = def
		}

		c.all = append(c.all, def)
	}

	return c, nil
}

func validate(def *entity.ActivityDefinition) error {
	switch def.Kind {
	case entity.KindChallenge, entity.KindQuest, entity.KindContest:
	default:
		return fmt.Errorf("unknown kind %s", def.Kind)
	}

	if def.Tier < 0 || def.Tier > 2 {
		return fmt.Errorf("tier %d out of range", def.Tier)
	}

	if def.DurationDays <= 0 && def.Kind != entity.KindContest {
		return errors.New("duration must be positive")
	}

	if def.Kind == entity.KindContest && !def.StartTime.Valid {
		return errors.New("contest needs a start time")
	}

	return nil
}

func (c *Catalog) Get(id string) (*entity.ActivityDefinition, bool) {
	return c.byID.Load(id)
}

func (c *Catalog) All() []*entity.ActivityDefinition {
	return c.all
}

func (c *Catalog) ByKind(kind entity.ActivityKind) []*entity.ActivityDefinition {
	return c.byKind[kind]
}

func (c *Catalog) ByCategory(category string) []*entity.ActivityDefinition {
	return c.byCategory[category]
}

func (c *Catalog) ByCategoryTier(category string, tier int) []*entity.ActivityDefinition {
	m := c.tierByCat[category]
	if m == nil {
		return nil
	}

	return m[tier]
}

// Foundation returns the single tier-0 challenge of a category, the
// prerequisite for starting its non-premium tier-1 activities.
func (c *Catalog) Foundation(category string) (*entity.ActivityDefinition, bool) {
	def, ok := c.foundationOf[category]
	return def, ok
}

func (c *Catalog) ChallengeSpec(def *entity.ActivityDefinition) (*ChallengeSpec, error) {
	if def.Kind != entity.KindChallenge {
		return nil, fmt.Errorf("definition %s is not a challenge", def.ID)
	}

	var spec ChallengeSpec
	if err := mapstructure.Decode(map[string]any(def.Spec), &spec); err != nil {
		return nil, err
	}

	return &spec, nil
}

func (c *Catalog) QuestSpec(def *entity.ActivityDefinition) (*QuestSpec, error) {
	if def.Kind != entity.KindQuest {
		return nil, fmt.Errorf("definition %s is not a quest", def.ID)
	}

	var spec QuestSpec
	if err := mapstructure.Decode(map[string]any(def.Spec), &spec); err != nil {
		return nil, err
	}

	return &spec, nil
}

func (c *Catalog) ContestSpec(def *entity.ActivityDefinition) (*ContestSpec, error) {
	if def.Kind != entity.KindContest {
		return nil, fmt.Errorf("definition %s is not a contest", def.ID)
	}

	var spec ContestSpec
	if err := mapstructure.Decode(map[string]any(def.Spec), &spec); err != nil {
		return nil, err
	}

	return &spec, nil
}
