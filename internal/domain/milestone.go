package domain

import "fmt"

// Milestone is a lifetime-volume threshold expressed as something heavy.
type Milestone struct {
	Name        string  `json:"name" toml:"name"`
	DisplayName string  `json:"display_name,omitempty" toml:"display_name"`
	Weight      float64 `json:"weight" toml:"weight"`
	Emoji       string  `json:"emoji,omitempty" toml:"emoji"`
	Description string  `json:"description,omitempty" toml:"description"`
}

// FormattedWeight renders the threshold in kilograms or tonnes.
func (m Milestone) FormattedWeight() string {
	if m.Weight >= 1000 {
		return fmt.Sprintf("%.1f t", m.Weight/1000)
	}
	return fmt.Sprintf("%.0f kg", m.Weight)
}

// DefaultMilestones is the built-in ascending table.
var DefaultMilestones = []Milestone{
	{Name: "Baby Elephant", Weight: 120, Emoji: "🐘", Description: "A newborn elephant"},
	{Name: "Gorilla", Weight: 200, Emoji: "🦍", Description: "An adult silverback"},
	{Name: "Grand Piano", Weight: 500, Emoji: "🎹", Description: "A concert grand"},
	{Name: "Horse", Weight: 600, Emoji: "🐎", Description: "A thoroughbred"},
	{Name: "Polar Bear", Weight: 700, Emoji: "🐻‍❄️", Description: "An adult male"},
	{Name: "Smart Car", Weight: 900, Emoji: "🚗", Description: "A city car"},
	{Name: "Great White Shark", Weight: 1100, Emoji: "🦈", Description: "Apex predator"},
	{Name: "Hippo", Weight: 1800, Emoji: "🦛", Description: "An adult hippo"},
	{Name: "Car", Weight: 2000, Emoji: "🚙", Description: "An average car"},
	{Name: "Rhino", Weight: 2500, Emoji: "🦏", Description: "An African rhino"},
	{Name: "Elephant", Weight: 6000, Emoji: "🐘", Description: "Largest land animal"},
	{Name: "T-Rex", Weight: 9000, Emoji: "🦖", Description: "King of the dinosaurs"},
	{Name: "School Bus", Weight: 11000, Emoji: "🚌", Description: "American school bus"},
	{Name: "Fire Truck", Weight: 19000, Emoji: "🚒", Description: "Ladder truck"},
	{Name: "Whale Shark", Weight: 20000, Emoji: "🐋", Description: "Largest fish"},
	{Name: "Humpback Whale", Weight: 36000, Emoji: "🐳", Description: "Singer of the sea"},
	{Name: "Semi Truck", Weight: 40000, Emoji: "🚛", Description: "Heavy truck"},
	{Name: "Space Shuttle", Weight: 78000, Emoji: "🚀", Description: "Orbiter"},
	{Name: "Blue Whale", Weight: 150000, Emoji: "🐋", Description: "Largest animal on earth"},
	{Name: "Boeing 747", Weight: 178000, Emoji: "✈️", Description: "Jumbo jet"},
	{Name: "Statue of Liberty", Weight: 225000, Emoji: "🗽", Description: "New York landmark"},
	{Name: "ISS Module", Weight: 420000, Emoji: "🛸", Description: "Space station"},
	{Name: "Eiffel Tower", Weight: 7300000, Emoji: "🗼", Description: "Paris landmark"},
	{Name: "Moai Statues", Weight: 10000000, Emoji: "🗿", Description: "Every moai on Easter Island"},
	{Name: "Great Pyramid", Weight: 6000000000, Emoji: "⛰️", Description: "Ancient wonder"},
}
