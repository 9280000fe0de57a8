package collection

// recomputeDismissCascade re-evaluates the group dismissal rule over the
// whole store. The recompute is idempotent and runs after every post, batch,
// ranking update, removal and dismissal.
//
// Rule: while a group's summary is Dismissed, every other member of the group
// is ParentDismissed unless it carries its own sticky Dismissed state, is
// exempt (foreground service or bubble), or is itself a summary. A member's
// ParentDismissed state reverts to NotDismissed as soon as no dismissed
// summary covers its group anymore.
func (c *Collection) recomputeDismissCascade() {
	// Groups currently covered by at least one dismissed summary.
	dismissedSummaryGroups := make(map[string]struct{})
	for _, rec := range c.records {
		if !rec.IsGroupSummary() || rec.dismissState != Dismissed {
			continue
		}
		if gk := rec.GroupKey(); gk != "" {
			dismissedSummaryGroups[gk] = struct{}{}
		}
	}

	for _, rec := range c.records {
		gk := rec.GroupKey()
		_, covered := dismissedSummaryGroups[gk]

		switch rec.dismissState {
		case ParentDismissed:
			if gk == "" || !covered || rec.IsGroupSummary() || rec.cascadeExempt() {
				rec.dismissState = NotDismissed
			}
		case NotDismissed:
			if gk != "" && covered && !rec.IsGroupSummary() && !rec.cascadeExempt() {
				rec.dismissState = ParentDismissed
			}
		case Dismissed:
			// Sticky: never downgraded here, only cleared by a fresh repost
			// of this exact entry.
		}
	}
}
