package export

// LookupIndex holds the per-page join mappings: messages keyed by id and
// link records keyed by the campaign that owns them. It is built once per
// page and discarded when the page has been restructured.
type LookupIndex struct {
	messageByID      map[string]*Message
	linkByCampaignID map[string]*CampaignMessage
}

// BuildLookupIndex indexes one page's message and link sequences.
// Link records sharing a campaign id overwrite each other, last one wins.
// Records without a usable id produce no entry and surface later as
// relationship errors on the campaigns that reference them.
func BuildLookupIndex(page *Page) *LookupIndex {
	ix := &LookupIndex{
		messageByID:      make(map[string]*Message, len(page.Messages)),
		linkByCampaignID: make(map[string]*CampaignMessage, len(page.CampaignMessages)),
	}

	for i := range page.Messages {
		m := &page.Messages[i]
		if id := m.ID.String(); id != "" {
			ix.messageByID[id] = m
		}
	}

	for i := range page.CampaignMessages {
		l := &page.CampaignMessages[i]
		if owner := l.CampaignID.String(); owner != "" {
			ix.linkByCampaignID[owner] = l
		}
	}

	return ix
}

// MessageByID returns the message with the given id, or nil.
func (ix *LookupIndex) MessageByID(id string) *Message {
	return ix.messageByID[id]
}

// LinkByCampaignID returns the link record owned by the given campaign, or nil.
func (ix *LookupIndex) LinkByCampaignID(campaignID string) *CampaignMessage {
	return ix.linkByCampaignID[campaignID]
}
