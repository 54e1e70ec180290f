package analytics

import (
	"sort"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// BuildSymptomNetwork builds the symptom co-occurrence graph. Edge weight is
// the exact number of days both symptoms were reported; edges below
// policy.MinCoOccurrenceDays are left out.
func BuildSymptomNetwork(symptoms SymptomTimeline, policy Policy) models.SymptomNetwork {
	names := sortedKeys(symptoms)

	network := models.SymptomNetwork{
		Nodes: make([]models.SymptomNode, 0, len(names)),
		Edges: make([]models.SymptomEdge, 0),
	}

	for _, name := range names {
		series := symptoms[name]
		frequency := 0
		for _, c := range series.Counts {
			frequency += c
		}
		locations := series.BodyLocations
		if locations == nil {
			locations = []string{}
		}
		network.Nodes = append(network.Nodes, models.SymptomNode{
			Symptom:       name,
			Frequency:     frequency,
			BodyLocations: locations,
		})
	}

	for i := 0; i < len(names); i++ {
		a := symptoms[names[i]].Counts
		for j := i + 1; j < len(names); j++ {
			b := symptoms[names[j]].Counts
			shared := 0
			for day := range a {
				if b[day] > 0 {
					shared++
				}
			}
			if shared < policy.MinCoOccurrenceDays {
				continue
			}
			network.Edges = append(network.Edges, models.SymptomEdge{
				Source: names[i],
				Target: names[j],
				Weight: shared,
			})
		}
	}

	sort.SliceStable(network.Nodes, func(i, j int) bool {
		return network.Nodes[i].Frequency > network.Nodes[j].Frequency
	})
	sort.SliceStable(network.Edges, func(i, j int) bool {
		return network.Edges[i].Weight > network.Edges[j].Weight
	})

	return network
}
