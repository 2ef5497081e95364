package redis

// keyspace builds the keys for one prefix. An empty prefix means unprefixed keys.
type keyspace string

func (k keyspace) join(parts ...string) string {
	key := string(k)
	for _, p := range parts {
		if key != "" {
			key += ":"
		}
		key += p
	}
	return key
}

// scores is the append-only LIST of a mode's score records
func (k keyspace) scores(mode string) string {
	return k.join("scores", mode)
}

// modes is the SET of modes that have scores
func (k keyspace) modes() string {
	return k.join("idx", "modes")
}
