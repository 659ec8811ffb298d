package export

import "fmt"

// ValidateRelationships checks the referential integrity of one joined
// campaign and returns a description of every violated condition, in a fixed
// order: missing link first, missing message second, id mismatch third.
// The checks are independent - a missing message does not suppress the
// missing-link error. An empty result means the relationships are intact.
func ValidateRelationships(c *Campaign, link *CampaignMessage, msg *Message) []string {
	var errs []string

	if link == nil {
		errs = append(errs, fmt.Sprintf("no link record found for primary id %s", c.ID))
	}
	if msg == nil {
		errs = append(errs, fmt.Sprintf("no content record found for primary id %s", c.ID))
	}
	if link != nil && msg != nil && link.MessageID != msg.ID {
		errs = append(errs, fmt.Sprintf(
			"link target message id %s does not match content record id %s for primary id %s",
			link.MessageID, msg.ID, c.ID))
	}

	return errs
}
