package index

// FindChannelByNameGlobal returns the first (group, channel) pair whose
// channel name matches name. The name_hash fields let this skip straight past
// non-matching channels without a string compare; only a hash hit pays for
// the exact-name check that rules out a collision.
func (idx *Index) FindChannelByNameGlobal(name string) (*Group, *Channel, bool) {
	h := nameHash(name)

	for gi := range idx.Groups {
		g := &idx.Groups[gi]
		for ci := range g.Channels {
			if g.Channels[ci].NameHash == h && g.Channels[ci].Name == name {
				return g, &g.Channels[ci], true
			}
		}
	}

	return nil, nil, false
}

// FoundChannel pairs a matched channel with its owning group, returned by
// FindAllChannelsByName.
type FoundChannel struct {
	Group   *Group
	Channel *Channel
}

// FindAllChannelsByName returns every (group, channel) pair whose channel
// name matches name.
func (idx *Index) FindAllChannelsByName(name string) []FoundChannel {
	var out []FoundChannel

	for gi := range idx.Groups {
		g := &idx.Groups[gi]
		for ci := range g.Channels {
			if g.Channels[ci].Name == name {
				out = append(out, FoundChannel{Group: g, Channel: &g.Channels[ci]})
			}
		}
	}

	return out
}

// FindChannelGroupByName returns the first group whose name matches name.
func (idx *Index) FindChannelGroupByName(name string) (*Group, bool) {
	for gi := range idx.Groups {
		if idx.Groups[gi].Name == name {
			return &idx.Groups[gi], true
		}
	}

	return nil, false
}

// ByteRangesForChannelName is a name-based convenience wrapper around
// Group.ByteRangesForWindow.
func (idx *Index) ByteRangesForChannelName(name string, startRecord, count uint64) ([]ByteRange, bool) {
	g, ch, ok := idx.FindChannelByNameGlobal(name)
	if !ok {
		return nil, false
	}

	return g.ByteRangesForWindow(*ch, startRecord, count), true
}
