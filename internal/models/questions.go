package models

// Per-category rating questions. Loaded once as immutable configuration so
// the rating form, synthetic-text synthesis and summary prompts all read the
// same catalog.
var categoryQuestions = map[CategoryName][]string{
	CategoryTeaching: {
		"Clarity of explanations?",
		"Instructor engagement?",
		"Course content relevance?",
		"Fairness of grading?",
		"Overall teaching effectiveness?",
	},
	CategoryInfrastructure: {
		"Classroom/lab conditions?",
		"IT resources (Wi-Fi, PCs)?",
		"Library resources/space?",
		"Sports facilities?",
		"Overall campus infrastructure?",
	},
	CategoryTransport: {
		"Transport punctuality?",
		"Bus comfort & safety?",
		"Route accessibility?",
		"Transport staff behavior?",
		"Overall transport satisfaction?",
	},
	CategoryExtracurricular: {
		"Variety/quality of activities?",
		"Support for student clubs?",
		"Sports/cultural event opportunities?",
		"Communication about activities?",
		"Overall extracurricular satisfaction?",
	},
	CategoryStaffBehaviour: {
		"Administrative staff professionalism?",
		"Support staff helpfulness?",
		"Faculty accessibility (non-academic)?",
		"Fairness in staff dealings?",
		"Overall experience with staff?",
	},
	CategoryCanteen: {
		"Food quality/taste?",
		"Variety of food options?",
		"Canteen hygiene?",
		"Value for money?",
		"Overall canteen satisfaction?",
	},
	CategoryLibrary: {
		"Book/journal availability?",
		"Library staff helpfulness?",
		"Study environment comfort?",
		"Digital resource access?",
		"Overall library effectiveness?",
	},
}

// QuestionsFor returns the ordered question prompts for a category.
func QuestionsFor(category CategoryName) []string {
	return categoryQuestions[category]
}

var ratingLabels = map[int]string{
	1: "Very Poor",
	2: "Poor",
	3: "Average",
	4: "Good",
	5: "Excellent",
}

// RatingLabel maps a 1..5 rating to its descriptive label.
func RatingLabel(value int) string {
	return ratingLabels[value]
}
