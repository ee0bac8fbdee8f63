package types

// AssessmentFeatures lists the feature names the self-assessment model
// expects: age plus nineteen binary symptom indicators. Every one must
// be present in a submission, each as a non-negative integer.
var AssessmentFeatures = []string{
	"age", "panic", "sweating", "concentration_trouble", "work_trouble",
	"hopelessness", "anger", "over_react", "eating_change", "suicidal_thought",
	"tired", "weight_gain", "introvert", "nightmares", "avoids_people_activities",
	"negative_feeling", "self_blaming", "hallucinations", "repetitive_behaviour",
	"increased_energy",
}
