package quiz

// Question は食肉衛生クイズの設問を表す。
// CorrectAnswerはOptionsのインデックス。APIレスポンスには含めない。
type Question struct {
	ID            int
	Question      string
	Options       []string
	CorrectAnswer int
}

// questionBank は食肉の交差汚染防止に関する全8問の設問バンク。
var questionBank = []Question{
	{
		ID:       1,
		Question: "What is the primary risk of meat cross-contamination in restaurant kitchens?",
		Options: []string{
			"Food poisoning and foodborne illness",
			"Loss of flavor in vegetarian dishes",
			"Increased cooking time",
			"Higher food costs",
		},
		CorrectAnswer: 0,
	},
	{
		ID:       2,
		Question: "Which surfaces should be cleaned and sanitized between preparing raw meat and other foods?",
		Options: []string{
			"Only cutting boards",
			"Only knives and utensils",
			"All surfaces, cutting boards, utensils, and equipment",
			"Only the stove and oven",
		},
		CorrectAnswer: 2,
	},
	{
		ID:       3,
		Question: "What is the correct order for washing hands after handling raw meat?",
		Options: []string{
			"Rinse with water, apply soap, scrub for 10 seconds, rinse",
			"Apply soap, scrub for 20 seconds, rinse with warm water",
			"Rinse with cold water, dry with towel",
			"Use hand sanitizer only",
		},
		CorrectAnswer: 1,
	},
	{
		ID:       4,
		Question: "How should raw meat be stored to prevent cross-contamination?",
		Options: []string{
			"On the top shelf of the refrigerator",
			"Next to ready-to-eat foods",
			"On the bottom shelf in sealed containers",
			"At room temperature for quick access",
		},
		CorrectAnswer: 2,
	},
	{
		ID:       5,
		Question: "What should you do if you accidentally use the same cutting board for raw meat and vegetables without cleaning?",
		Options: []string{
			"Continue cooking, the heat will kill any bacteria",
			"Discard the vegetables and clean the cutting board thoroughly",
			"Only rinse the vegetables with water",
			"Mix them together since they'll be cooked",
		},
		CorrectAnswer: 1,
	},
	{
		ID:       6,
		Question: "Which temperature is considered safe for storing raw meat in the refrigerator?",
		Options: []string{
			"45°F (7°C) or below",
			"40°F (4°C) or below",
			"50°F (10°C) or below",
			"Room temperature is fine for short periods",
		},
		CorrectAnswer: 1,
	},
	{
		ID:       7,
		Question: "What is the best practice when using separate cutting boards?",
		Options: []string{
			"Use any cutting board for any food",
			"Use the same cutting board but rinse between uses",
			"Use separate color-coded cutting boards for different food types",
			"Only use one cutting board per day",
		},
		CorrectAnswer: 2,
	},
	{
		ID:       8,
		Question: "How long should you wash your hands after handling raw meat?",
		Options: []string{
			"5 seconds",
			"10 seconds",
			"At least 20 seconds",
			"1 minute",
		},
		CorrectAnswer: 2,
	},
}
