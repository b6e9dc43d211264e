package rules

// Categories returns the category labels in taxonomy order.
func (r *Rules) Categories() []string {
	labels := make([]string, 0, len(r.Skills))
	for _, category := range r.Skills {
		labels = append(labels, category.Category)
	}
	return labels
}
