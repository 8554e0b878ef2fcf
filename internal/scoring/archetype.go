package scoring

import "psyscore/internal/domain"

const (
	ArchetypeAdaptiveGeneralist      = "Adaptive Generalist"
	ArchetypeStrategicInnovator      = "Strategic Innovator"
	ArchetypeCreativeCatalyst        = "Creative Catalyst"
	ArchetypeServantLeader           = "Servant Leader"
	ArchetypeAnalyticalArchitect     = "Analytical Architect"
	ArchetypeSocialHarmonizer        = "Social Harmonizer"
	ArchetypeDynamicAchiever         = "Dynamic Achiever"
	ArchetypeIndependentThinker      = "Independent Thinker"
	ArchetypeSensitiveEmpath         = "Sensitive Empath"
	ArchetypePassionateArtist        = "Passionate Artist"
	ArchetypeAnxiousPerfectionist    = "Anxious Perfectionist"
	ArchetypeBoldChallenger          = "Bold Challenger"
	ArchetypeFreeSpirit              = "Free Spirit"
	ArchetypeSteadyAnchor            = "Steady Anchor"
	ArchetypeReflectiveObserver      = "Reflective Observer"
	ArchetypeGentleSupporter         = "Gentle Supporter"
	ArchetypeCuriousExplorer         = "Curious Explorer"
	ArchetypeReliableAchiever        = "Reliable Achiever"
	ArchetypeSocialConnector         = "Social Connector"
	ArchetypeCompassionateHarmonizer = "Compassionate Harmonizer"
	ArchetypeUniqueIndividual        = "Unique Individual"

	balancedRange   = 25
	dominantMinimum = 55
)

// ArchetypeRule is one step of the cascade.
type ArchetypeRule struct {
	Archetype string
	Match     func(p domain.Big5Profile) bool
}

// Order matters: a profile satisfying several rules gets the first one.
var archetypeCascade = []ArchetypeRule{
	{ArchetypeAdaptiveGeneralist, func(p domain.Big5Profile) bool {
		return p.Range() < balancedRange
	}},
	{ArchetypeStrategicInnovator, func(p domain.Big5Profile) bool {
		return p.Openness >= 60 && p.Conscientiousness >= 60 && p.Neuroticism <= 50
	}},
	{ArchetypeCreativeCatalyst, func(p domain.Big5Profile) bool {
		return p.Openness >= 60 && p.Extraversion >= 60 && p.Neuroticism <= 55
	}},
	{ArchetypeServantLeader, func(p domain.Big5Profile) bool {
		return p.Conscientiousness >= 60 && p.Agreeableness >= 60 && p.Extraversion >= 45
	}},
	{ArchetypeAnalyticalArchitect, func(p domain.Big5Profile) bool {
		return p.Conscientiousness >= 60 && p.Extraversion <= 40 && p.Neuroticism <= 50
	}},
	{ArchetypeSocialHarmonizer, func(p domain.Big5Profile) bool {
		return p.Extraversion >= 65 && p.Agreeableness >= 60
	}},
	{ArchetypeDynamicAchiever, func(p domain.Big5Profile) bool {
		return p.Extraversion >= 65 && p.Conscientiousness >= 60
	}},
	{ArchetypeIndependentThinker, func(p domain.Big5Profile) bool {
		return p.Openness >= 65 && p.Extraversion <= 40
	}},
	{ArchetypeSensitiveEmpath, func(p domain.Big5Profile) bool {
		return p.Agreeableness >= 65 && p.Neuroticism >= 60
	}},
	{ArchetypePassionateArtist, func(p domain.Big5Profile) bool {
		return p.Openness >= 60 && p.Neuroticism >= 60
	}},
	{ArchetypeAnxiousPerfectionist, func(p domain.Big5Profile) bool {
		return p.Conscientiousness >= 65 && p.Neuroticism >= 60
	}},
	{ArchetypeBoldChallenger, func(p domain.Big5Profile) bool {
		return p.Extraversion >= 60 && p.Agreeableness <= 40
	}},
	{ArchetypeFreeSpirit, func(p domain.Big5Profile) bool {
		return p.Conscientiousness <= 35 && p.Openness >= 55 && p.Extraversion >= 55
	}},
	{ArchetypeSteadyAnchor, func(p domain.Big5Profile) bool {
		return p.Neuroticism <= 35 && p.Conscientiousness >= 55
	}},
	{ArchetypeReflectiveObserver, func(p domain.Big5Profile) bool {
		return p.Extraversion <= 35 && p.Neuroticism >= 60
	}},
	{ArchetypeGentleSupporter, func(p domain.Big5Profile) bool {
		return p.Agreeableness >= 60 && p.Extraversion <= 40
	}},
}

var dominantArchetypes = map[domain.Trait]string{
	domain.Openness:          ArchetypeCuriousExplorer,
	domain.Conscientiousness: ArchetypeReliableAchiever,
	domain.Extraversion:      ArchetypeSocialConnector,
	domain.Agreeableness:     ArchetypeCompassionateHarmonizer,
}

// ArchetypeRules returns a copy of the ordered cascade.
func ArchetypeRules() []ArchetypeRule {
	return append([]ArchetypeRule(nil), archetypeCascade...)
}

// ClassifyArchetypeName runs the cascade, then the dominant-trait fallback.
func ClassifyArchetypeName(p domain.Big5Profile) string {
	for _, rule := range archetypeCascade {
		if rule.Match(p) {
			return rule.Archetype
		}
	}
	trait, value := p.Dominant()
	if value >= dominantMinimum {
		if name, ok := dominantArchetypes[trait]; ok {
			return name
		}
	}
	return ArchetypeUniqueIndividual
}

// ClassifyArchetype is a pure function of the profile.
func ClassifyArchetype(p domain.Big5Profile) domain.Archetype {
	return LookupArchetype(ClassifyArchetypeName(p))
}

// LookupArchetype returns a copy of the catalog entry for name.
func LookupArchetype(name string) domain.Archetype {
	a, ok := archetypeCatalog[name]
	if !ok {
		a = archetypeCatalog[ArchetypeUniqueIndividual]
	}
	a.Strengths = append([]string(nil), a.Strengths...)
	return a
}

var archetypeCatalog = map[string]domain.Archetype{
	ArchetypeAdaptiveGeneralist: {
		Name:            ArchetypeAdaptiveGeneralist,
		Description:     "An even profile with no single dominant trait; adjusts style to the situation.",
		Strengths:       []string{"versatility", "balanced judgment", "comfort in varied roles"},
		GrowthEdge:      "Choosing a clear direction when the context does not set one.",
		PopulationShare: 0.12,
	},
	ArchetypeStrategicInnovator: {
		Name:            ArchetypeStrategicInnovator,
		Description:     "Combines open, idea-driven thinking with disciplined follow-through under pressure.",
		Strengths:       []string{"long-range planning", "turning ideas into execution", "composure"},
		GrowthEdge:      "Leaving room for input from people who think less systematically.",
		PopulationShare: 0.06,
	},
	ArchetypeCreativeCatalyst: {
		Name:            ArchetypeCreativeCatalyst,
		Description:     "Energized by people and novelty; sparks momentum around new ideas.",
		Strengths:       []string{"inspiring others", "idea generation", "social energy"},
		GrowthEdge:      "Sustaining projects once the novelty has faded.",
		PopulationShare: 0.07,
	},
	ArchetypeServantLeader: {
		Name:            ArchetypeServantLeader,
		Description:     "Reliable and warm; leads by supporting the people around them.",
		Strengths:       []string{"dependability", "team cohesion", "follow-through"},
		GrowthEdge:      "Protecting personal priorities while helping others.",
		PopulationShare: 0.08,
	},
	ArchetypeAnalyticalArchitect: {
		Name:            ArchetypeAnalyticalArchitect,
		Description:     "Methodical and reserved; builds careful structures and systems.",
		Strengths:       []string{"precision", "deep focus", "calm under load"},
		GrowthEdge:      "Sharing work earlier and more often.",
		PopulationShare: 0.06,
	},
	ArchetypeSocialHarmonizer: {
		Name:            ArchetypeSocialHarmonizer,
		Description:     "Outgoing and cooperative; keeps groups connected and at ease.",
		Strengths:       []string{"rapport building", "mediation", "enthusiasm"},
		GrowthEdge:      "Raising disagreements instead of smoothing them over.",
		PopulationShare: 0.07,
	},
	ArchetypeDynamicAchiever: {
		Name:            ArchetypeDynamicAchiever,
		Description:     "Driven and visible; pushes goals forward through people and planning.",
		Strengths:       []string{"initiative", "organization", "persuasion"},
		GrowthEdge:      "Slowing down to let others catch up.",
		PopulationShare: 0.05,
	},
	ArchetypeIndependentThinker: {
		Name:            ArchetypeIndependentThinker,
		Description:     "Curious and inward-facing; prefers exploring ideas alone or in small circles.",
		Strengths:       []string{"original insight", "self-direction", "depth"},
		GrowthEdge:      "Translating private insight into shared work.",
		PopulationShare: 0.05,
	},
	ArchetypeSensitiveEmpath: {
		Name:            ArchetypeSensitiveEmpath,
		Description:     "Deeply attuned to others' feelings, and feels strongly in return.",
		Strengths:       []string{"empathy", "emotional insight", "kindness"},
		GrowthEdge:      "Setting boundaries that protect emotional energy.",
		PopulationShare: 0.05,
	},
	ArchetypePassionateArtist: {
		Name:            ArchetypePassionateArtist,
		Description:     "Imaginative with intense emotional experience that fuels expression.",
		Strengths:       []string{"creativity", "emotional depth", "aesthetic sense"},
		GrowthEdge:      "Building routines that steady mood swings.",
		PopulationShare: 0.04,
	},
	ArchetypeAnxiousPerfectionist: {
		Name:            ArchetypeAnxiousPerfectionist,
		Description:     "Highly conscientious with elevated worry about getting things right.",
		Strengths:       []string{"thoroughness", "high standards", "preparedness"},
		GrowthEdge:      "Accepting good enough when the stakes are low.",
		PopulationShare: 0.05,
	},
	ArchetypeBoldChallenger: {
		Name:            ArchetypeBoldChallenger,
		Description:     "Assertive and direct; comfortable with conflict and competition.",
		Strengths:       []string{"decisiveness", "candor", "drive"},
		GrowthEdge:      "Weighing the relational cost of winning an argument.",
		PopulationShare: 0.04,
	},
	ArchetypeFreeSpirit: {
		Name:            ArchetypeFreeSpirit,
		Description:     "Spontaneous, social and curious; resists structure and routine.",
		Strengths:       []string{"adaptability", "playfulness", "openness to experience"},
		GrowthEdge:      "Committing to a few priorities long enough to finish them.",
		PopulationShare: 0.04,
	},
	ArchetypeSteadyAnchor: {
		Name:            ArchetypeSteadyAnchor,
		Description:     "Calm and dependable; a stabilizing presence for others.",
		Strengths:       []string{"emotional stability", "consistency", "reliability"},
		GrowthEdge:      "Staying open to change that feels unnecessary.",
		PopulationShare: 0.06,
	},
	ArchetypeReflectiveObserver: {
		Name:            ArchetypeReflectiveObserver,
		Description:     "Quiet and watchful, with a rich and sometimes restless inner life.",
		Strengths:       []string{"observation", "introspection", "caution"},
		GrowthEdge:      "Seeking support before worries accumulate.",
		PopulationShare: 0.04,
	},
	ArchetypeGentleSupporter: {
		Name:            ArchetypeGentleSupporter,
		Description:     "Kind and low-key; helps from the background.",
		Strengths:       []string{"patience", "loyalty", "attentive listening"},
		GrowthEdge:      "Asking for credit and for help.",
		PopulationShare: 0.05,
	},
	ArchetypeCuriousExplorer: {
		Name:            ArchetypeCuriousExplorer,
		Description:     "Openness leads the profile; drawn to new ideas and experiences.",
		Strengths:       []string{"curiosity", "imagination", "learning agility"},
		GrowthEdge:      "Finishing explorations before starting new ones.",
		PopulationShare: 0.03,
	},
	ArchetypeReliableAchiever: {
		Name:            ArchetypeReliableAchiever,
		Description:     "Conscientiousness leads the profile; organized and goal-focused.",
		Strengths:       []string{"discipline", "planning", "accountability"},
		GrowthEdge:      "Adapting plans when circumstances shift.",
		PopulationShare: 0.03,
	},
	ArchetypeSocialConnector: {
		Name:            ArchetypeSocialConnector,
		Description:     "Extraversion leads the profile; energized by people and activity.",
		Strengths:       []string{"networking", "expressiveness", "energy"},
		GrowthEdge:      "Making space for solitude and reflection.",
		PopulationShare: 0.03,
	},
	ArchetypeCompassionateHarmonizer: {
		Name:            ArchetypeCompassionateHarmonizer,
		Description:     "Agreeableness leads the profile; cooperative and trusting.",
		Strengths:       []string{"compassion", "cooperation", "trust building"},
		GrowthEdge:      "Holding a position when others push back.",
		PopulationShare: 0.03,
	},
	ArchetypeUniqueIndividual: {
		Name:            ArchetypeUniqueIndividual,
		Description:     "A profile that does not fit a common pattern.",
		Strengths:       []string{"individuality", "unconventional combinations", "self-knowledge"},
		GrowthEdge:      "Exploring which situations bring out your best traits.",
		PopulationShare: 0.05,
	},
}
