// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package dnstxt discovers the answer URL through DNS TXT records.
//
// The lookup derives its names from the default search domain of the
// host: with a resolv.conf of
//
//	search lab.local
//	nameserver 10.0.0.2
//
// and the default subdomains, the URL is read from the TXT record of
// "proxmoxinst.lab.local" and the certificate fingerprint from
// "proxmoxinst-fp.lab.local". Queries go through dig when it is
// installed and fall back to querying the first configured nameserver
// directly when it is not.
package dnstxt

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/miekg/dns"

	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/helper/cmdrun"
	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/logger"
)

var (
	// ErrNoSearchDomain indicates resolv.conf carries no search directive,
	// so there is no domain to anchor the TXT lookups under.
	ErrNoSearchDomain = errors.New("dns: could not find search domain in resolv.conf")

	// ErrEmptyAnswer indicates the TXT query succeeded but produced no
	// usable text once quoting was removed.
	ErrEmptyAnswer = errors.New("dns: got empty response")
)

// Resolver reads the answer URL, and optionally a certificate
// fingerprint, from TXT records under the host's search domain.
type Resolver struct {
	// ResolvConf is the resolver configuration file, normally
	// /etc/resolv.conf. It supplies both the search domain and, for the
	// dig-less fallback, the nameserver to query.
	ResolvConf string

	// URLSubdomain is prepended to the search domain to form the name
	// holding the answer URL.
	URLSubdomain string

	// FingerprintSubdomain is prepended to the search domain to form the
	// name holding the certificate fingerprint.
	FingerprintSubdomain string

	// Run executes dig and resolves its presence on PATH.
	Run cmdrun.Runner

	// Log receives resolution progress.
	Log logger.Logger
}

// Fetch looks up the answer URL and, when current is empty, the
// certificate fingerprint.
//
// A missing search domain or a failed URL query fails the source and
// returns current unchanged, so a fingerprint locked in by an earlier
// source survives. A failed fingerprint query is only logged: TXT
// deployments that rely on a fingerprint shipped on the config
// partition are valid.
func (r *Resolver) Fetch(ctx context.Context, current string) (string, string, error) {
	domain, err := r.SearchDomain()
	if err != nil {
		return "", current, err
	}

	url, err := r.QueryTXT(ctx, r.URLSubdomain+"."+domain)
	if err != nil {
		return "", current, err
	}

	fingerprint := current
	if fingerprint == "" {
		fp, err := r.QueryTXT(ctx, r.FingerprintSubdomain+"."+domain)
		if err != nil {
			r.Log.Infof("No fingerprint found in DNS.")
		} else {
			fingerprint = fp
		}
	}

	return url, fingerprint, nil
}

// SearchDomain returns the value of the first search directive in
// ResolvConf. Multiple domains on the directive are returned as one
// space-separated value.
func (r *Resolver) SearchDomain() (string, error) {
	r.Log.Infof("Retrieving default search domain.")

	data, err := os.ReadFile(r.ResolvConf)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", r.ResolvConf, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), "search")
		if !ok || rest == "" {
			continue
		}
		// Keywords like "searchfoo" are not the search directive.
		if rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		if domain := strings.TrimSpace(rest); domain != "" {
			return domain, nil
		}
	}

	return "", ErrNoSearchDomain
}

// QueryTXT resolves the TXT record for name and returns its text with
// all double quotes removed and surrounding whitespace trimmed.
func (r *Resolver) QueryTXT(ctx context.Context, name string) (string, error) {
	r.Log.Infof("Querying TXT record for '%s'", name)

	var answer string
	if _, err := r.Run.LookPath("dig"); err == nil {
		out, err := r.Run.Run(ctx, "dig", "txt", "+short", name)
		if err != nil {
			return "", fmt.Errorf("querying DNS record '%s': %w", name, err)
		}
		answer, err = cmdrun.Text(out)
		if err != nil {
			return "", fmt.Errorf("querying DNS record '%s': %w", name, err)
		}
	} else {
		answer, err = r.lookupInProcess(ctx, name)
		if err != nil {
			return "", fmt.Errorf("querying DNS record '%s': %w", name, err)
		}
	}

	answer = strings.TrimSpace(strings.ReplaceAll(answer, `"`, ""))
	if answer == "" {
		return "", fmt.Errorf("%w for record '%s'", ErrEmptyAnswer, name)
	}

	r.Log.Infof("Found: '%s'", answer)
	return answer, nil
}

// lookupInProcess queries the first nameserver from ResolvConf directly.
// It mirrors what dig prints for +short: one line per TXT record, with
// the character strings of each record concatenated.
func (r *Resolver) lookupInProcess(ctx context.Context, name string) (string, error) {
	cfg, err := dns.ClientConfigFromFile(r.ResolvConf)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", r.ResolvConf, err)
	}
	if len(cfg.Servers) == 0 {
		return "", fmt.Errorf("no nameservers in %s", r.ResolvConf)
	}

	return queryServer(ctx, name, net.JoinHostPort(cfg.Servers[0], cfg.Port))
}

// queryServer performs a TXT query for name against the nameserver at
// addr (host:port).
func queryServer(ctx context.Context, name, addr string) (string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), dns.TypeTXT)
	m.RecursionDesired = true

	client := new(dns.Client)
	reply, _, err := client.ExchangeContext(ctx, m, addr)
	if err != nil {
		return "", err
	}
	if reply.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("nameserver returned %s", dns.RcodeToString[reply.Rcode])
	}

	records := make([]string, 0, len(reply.Answer))
	for _, rr := range reply.Answer {
		if txt, ok := rr.(*dns.TXT); ok {
			records = append(records, strings.Join(txt.Txt, ""))
		}
	}

	return strings.Join(records, "\n"), nil
}
