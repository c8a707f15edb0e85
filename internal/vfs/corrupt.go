package vfs

// The corruption engine drives the scripted "system failure" scenario. It is
// intentionally stochastic and non-reversible; Reset is the only recovery.

const (
	scrambleProbability = 0.5
	deleteProbability   = 0.2
	corruptExtension    = ".dat"
	tokenLength         = 5
	tokenAlphabet       = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Corrupt replaces the tree with a randomly damaged but structurally valid
// copy and raises the corruption flag.
//
// Every directory's children are visited in sorted-name order (sorted so a
// seeded Store damages deterministically). Each child is independently
// scrambled with p=0.5 — files get a random name and placeholder content,
// directories get a random name and their children are visited in turn — and
// independently deleted with p=0.2. Children entering the visit named
// "System" or "Desktop" are exempt from deletion only.
func (s *Store) Corrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.root.Clone()
	s.damageChildren(next)
	s.root = next
	s.corrupted = true
	s.persistLocked()

	if s.observer != nil {
		s.observer.RecordMutation("corrupt", true)
		s.observer.SetCorrupted(true)
	}
	s.logger.Warn("filesystem corruption triggered")
}

func (s *Store) damageChildren(dir *Node) {
	for _, name := range dir.ChildNames() {
		child := dir.Children[name]
		key := name

		if s.rng.Float64() < scrambleProbability {
			key = s.scramble(dir, key, child)
			if child.IsDir() {
				s.damageChildren(child)
			}
		}

		// Exemption keys off the name the child entered the visit with.
		if s.rng.Float64() < deleteProbability && name != "System" && name != "Desktop" {
			delete(dir.Children, key)
		}
	}
}

// scramble renames child to a random token (files keep a fixed extension and
// lose their content to a tagged placeholder) and returns the child's new
// key in dir. A token colliding with a sibling leaves the name alone.
func (s *Store) scramble(dir *Node, key string, child *Node) string {
	newName := s.token()
	if !child.IsDir() {
		newName += corruptExtension
		child.Content = "CORRUPTED::" + s.token()
		child.Size = ContentSize(child.Content)
		child.Modified = s.now()
	}

	if _, taken := dir.Children[newName]; taken {
		return key
	}

	delete(dir.Children, key)
	child.Name = newName
	child.Rebase(dir.Path)
	dir.Children[newName] = child
	return newName
}

func (s *Store) token() string {
	buf := make([]byte, tokenLength)
	for i := range buf {
		buf[i] = tokenAlphabet[s.rng.Intn(len(tokenAlphabet))]
	}
	return string(buf)
}
