// SPDX-License-Identifier: Apache-2.0
package setup

import (
	"context"
)

type gitSetting struct {
	key, value string
}

// gitSettings is the global git configuration for plan, in write order.
func gitSettings(plan Plan) []gitSetting {
	var out []gitSetting
	if plan.Name != "" {
		out = append(out, gitSetting{"user.name", plan.Name})
	}
	if plan.Email != "" {
		out = append(out, gitSetting{"user.email", plan.Email})
	}
	out = append(out,
		gitSetting{"init.defaultBranch", "main"},
		gitSetting{"push.autoSetupRemote", "true"},
		gitSetting{"pull.rebase", "true"},
		gitSetting{"fetch.prune", "true"},
		gitSetting{"rebase.autoStash", "true"},
	)
	if plan.has("delta") {
		out = append(out,
			gitSetting{"core.pager", "delta"},
			gitSetting{"interactive.diffFilter", "delta --color-only"},
			gitSetting{"delta.navigate", "true"},
			gitSetting{"delta.line-numbers", "true"},
		)
	}
	return append(out, gitSetting{"url.git@github.com:.insteadOf", "https://github.com/"})
}

func (s *Steps) configureGit(ctx context.Context, plan Plan) {
	s.logf("[GIT] Configuring git identity...")
	for _, kv := range gitSettings(plan) {
		s.gitConfig(ctx, kv.key, kv.value)
	}
	s.logf("[GIT] Git identity configured")
}

// gitConfig sets one global key and reports whether it stuck.
func (s *Steps) gitConfig(ctx context.Context, key, value string) bool {
	c, err := s.output(ctx, "git", "config", "--global", key, value)
	if err != nil || !c.Success() {
		s.logf("  [WARN] git config %s failed: %s", key, failure(c, err))
		return false
	}
	s.logf("  git config --global %s = %s", key, value)
	return true
}
