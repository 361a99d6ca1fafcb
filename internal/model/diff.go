package model

// PropertyDiff describes how one class's property set changed between
// two reports.
type PropertyDiff struct {
	// Added lists properties present in the new report but not the old.
	Added []ThreatProperty `json:"added,omitempty"`

	// Removed lists properties present in the old report but not the new.
	Removed []ThreatProperty `json:"removed,omitempty"`
}

// TaxonomyDiff describes the differences between two classification
// reports, typically two stored snapshots of the same endpoint.
type TaxonomyDiff struct {
	// AddedClasses lists classes present only in the new report,
	// in the new report's order.
	AddedClasses []ThreatClass `json:"added_classes,omitempty"`

	// RemovedClasses lists classes present only in the old report,
	// in the old report's order.
	RemovedClasses []ThreatClass `json:"removed_classes,omitempty"`

	// PropertyChanges maps classes whose property sets changed to the
	// per-class additions and removals. Classes absent from a report's
	// mapping are treated as having no recorded properties there.
	PropertyChanges map[ThreatClass]PropertyDiff `json:"property_changes,omitempty"`
}

// Empty reports whether the diff carries no changes.
func (d *TaxonomyDiff) Empty() bool {
	return len(d.AddedClasses) == 0 &&
		len(d.RemovedClasses) == 0 &&
		len(d.PropertyChanges) == 0
}

// Diff computes the taxonomy changes from old to new.
//
// Class membership is compared as a set while preserving report order
// in the output. Property changes are computed per class for classes
// present in both reports; order within a class's property list is not
// treated as a change.
func Diff(old, new *ClassificationReport) *TaxonomyDiff {
	diff := &TaxonomyDiff{}

	oldSet := make(map[ThreatClass]struct{}, len(old.Classes))
	for _, class := range old.Classes {
		oldSet[class] = struct{}{}
	}
	newSet := make(map[ThreatClass]struct{}, len(new.Classes))
	for _, class := range new.Classes {
		newSet[class] = struct{}{}
	}

	for _, class := range new.Classes {
		if _, ok := oldSet[class]; !ok {
			diff.AddedClasses = append(diff.AddedClasses, class)
		}
	}
	for _, class := range old.Classes {
		if _, ok := newSet[class]; !ok {
			diff.RemovedClasses = append(diff.RemovedClasses, class)
		}
	}

	for _, class := range new.Classes {
		if _, ok := oldSet[class]; !ok {
			continue
		}

		oldProps, _ := old.Properties(class)
		newProps, _ := new.Properties(class)

		pd := diffProperties(oldProps, newProps)
		if len(pd.Added) > 0 || len(pd.Removed) > 0 {
			if diff.PropertyChanges == nil {
				diff.PropertyChanges = make(map[ThreatClass]PropertyDiff)
			}
			diff.PropertyChanges[class] = pd
		}
	}

	return diff
}

// diffProperties computes set additions and removals between two
// property lists, preserving list order in the output.
func diffProperties(old, new []ThreatProperty) PropertyDiff {
	oldSet := make(map[ThreatProperty]struct{}, len(old))
	for _, prop := range old {
		oldSet[prop] = struct{}{}
	}
	newSet := make(map[ThreatProperty]struct{}, len(new))
	for _, prop := range new {
		newSet[prop] = struct{}{}
	}

	var pd PropertyDiff
	for _, prop := range new {
		if _, ok := oldSet[prop]; !ok {
			pd.Added = append(pd.Added, prop)
		}
	}
	for _, prop := range old {
		if _, ok := newSet[prop]; !ok {
			pd.Removed = append(pd.Removed, prop)
		}
	}
	return pd
}
