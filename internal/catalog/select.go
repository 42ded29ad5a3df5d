package catalog

// SelectBestServer picks the most suitable server from candidates using a
// deterministic tie-break ordering: remote-hosted beats local-install-required,
// then verified beats unverified, then a passed security scan beats unknown or
// failed, then higher use count wins. Pure and side-effect-free.
func SelectBestServer(servers []Server) (Server, bool) {
	if len(servers) == 0 {
		return Server{}, false
	}

	best := servers[0]
	for _, candidate := range servers[1:] {
		if preferServer(candidate, best) {
			best = candidate
		}
	}

	return best, true
}

// preferServer reports whether a should be ranked ahead of b.
func preferServer(a, b Server) bool {
	if a.IsRemote != b.IsRemote {
		return a.IsRemote
	}
	if a.IsVerified != b.IsVerified {
		return a.IsVerified
	}
	if scanPassed(a) != scanPassed(b) {
		return scanPassed(a)
	}
	return a.UseCount > b.UseCount
}

func scanPassed(s Server) bool {
	return s.Security != nil && s.Security.Passed
}
