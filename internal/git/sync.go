package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// GitSync keeps the form library mirrored in a git repository. Sync is
// opportunistic: operations commit and push when a remote is configured and
// silently do nothing when it is not.
type GitSync struct {
	baseDir string
	enabled bool
}

// NewGitSync creates a sync handle over the library directory. Call
// Initialize to probe whether the directory is actually a repository.
func NewGitSync(baseDir string) *GitSync {
	return &GitSync{
		baseDir: baseDir,
		enabled: false,
	}
}

// IsEnabled returns true if git sync is available and enabled
func (g *GitSync) IsEnabled() bool {
	return g.enabled && g.isGitInitialized()
}

// Initialize checks if git is set up and enables sync if available
func (g *GitSync) Initialize() error {
	if !g.isGitInitialized() {
		g.enabled = false
		return nil // Not an error, just not available
	}

	// A repository without a remote has nothing to sync against
	if !g.hasRemote() {
		g.enabled = false
		return nil
	}

	g.enabled = true
	return nil
}

// SetupRepository initializes the library as a git repository, connects it to
// the given remote and performs the first round trip.
func (g *GitSync) SetupRepository(repoURL string) error {
	if repoURL == "" {
		return fmt.Errorf("repository URL cannot be empty")
	}

	if err := g.ensureLocalRepository(); err != nil {
		return err
	}
	if err := g.connectRemote(repoURL); err != nil {
		return err
	}
	if err := g.seedInitialCommit(); err != nil {
		return err
	}

	// Fetch to check the remote exists and is reachable; adopt its content
	// when it already has some.
	fetchErr := g.runGitCommand("fetch", "origin")
	if fetchErr != nil {
		if isAuthError(fetchErr) {
			printAuthHelp(repoURL)
			return fmt.Errorf("authentication required for remote repository")
		}
		// A brand-new remote has nothing to fetch, which is fine
		if !strings.Contains(fetchErr.Error(), "couldn't find remote ref") {
			fmt.Printf("Warning: Could not fetch from remote (this is normal for new repositories): %v\n", fetchErr)
		}
	} else {
		g.adoptRemoteContent()
	}

	// Push whatever branch we ended up on
	currentBranch := g.getCurrentBranch()
	fmt.Printf("📤 Pushing to remote branch '%s'...\n", currentBranch)

	if err := g.runGitCommand("push", "-u", "origin", currentBranch); err != nil {
		if isAuthError(err) {
			return fmt.Errorf("authentication failed: please check your repository URL and credentials")
		}
		fmt.Printf("Warning: Push failed (you can push manually later): %v\n", err)
	} else {
		fmt.Println("✅ Successfully pushed to remote repository")
	}

	g.enabled = true
	fmt.Println("✅ Git synchronization successfully configured!")

	return nil
}

// ensureLocalRepository initializes git in the library directory if needed.
func (g *GitSync) ensureLocalRepository() error {
	if g.isGitInitialized() {
		return nil
	}

	if err := g.runGitCommand("init"); err != nil {
		return fmt.Errorf("failed to initialize git repository: %w", err)
	}

	if err := g.runGitCommand("branch", "-M", "master"); err != nil {
		// Not critical, some git versions don't support it
		fmt.Printf("Note: Could not set default branch to 'master': %v\n", err)
	}
	return nil
}

// connectRemote points origin at repoURL, adding or updating as needed.
func (g *GitSync) connectRemote(repoURL string) error {
	if g.hasRemote() {
		currentURL, err := g.getRemoteURL()
		if err == nil && currentURL != repoURL {
			if err := g.runGitCommand("remote", "set-url", "origin", repoURL); err != nil {
				return fmt.Errorf("failed to update remote URL: %w", err)
			}
			fmt.Printf("Updated remote repository to: %s\n", repoURL)
		}
		return nil
	}

	if err := g.runGitCommand("remote", "add", "origin", repoURL); err != nil {
		return fmt.Errorf("failed to add remote repository: %w", err)
	}
	fmt.Printf("Added remote repository: %s\n", repoURL)
	return nil
}

// seedInitialCommit creates the first commit when the repository has none,
// writing a README so even an empty library commits cleanly.
func (g *GitSync) seedInitialCommit() error {
	if g.hasCommits() {
		return nil
	}

	readmePath := filepath.Join(g.baseDir, "README.md")
	if _, err := os.Stat(readmePath); os.IsNotExist(err) {
		readmeContent := []byte("# Formloom Library\n\nThis repository contains your synchronized form library.\n")
		if err := os.WriteFile(readmePath, readmeContent, 0644); err != nil {
			fmt.Printf("Warning: Could not create README: %v\n", err)
		}
	}

	if err := g.runGitCommand("add", "-A"); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}

	if err := g.runGitCommand("commit", "-m", "Initial formloom library commit"); err != nil {
		if !strings.Contains(err.Error(), "nothing to commit") {
			return fmt.Errorf("failed to create initial commit: %w", err)
		}
	}
	return nil
}

// adoptRemoteContent switches to the remote's branch and pulls its content,
// preferring the remote side so setup never clobbers an existing library.
// Failures are reported but non-fatal; the subsequent push surfaces real
// problems.
func (g *GitSync) adoptRemoteContent() {
	fmt.Println("📥 Pulling existing content from remote repository...")

	remoteBranches, err := g.getRemoteBranches()
	if err != nil {
		fmt.Printf("Warning: Could not determine remote branches: %v\n", err)
		remoteBranches = []string{"master"}
	}

	var remoteBranch string
	switch {
	case contains(remoteBranches, "master"):
		remoteBranch = "master"
	case contains(remoteBranches, "main"):
		remoteBranch = "main"
	case len(remoteBranches) > 0:
		remoteBranch = remoteBranches[0]
	default:
		fmt.Println("No remote branches found - proceeding with local content")
		return
	}

	fmt.Printf("🔄 Syncing with remote branch '%s'...\n", remoteBranch)

	if err := g.runGitCommand("checkout", "-B", remoteBranch); err != nil {
		fmt.Printf("Warning: Could not create/switch to branch %s: %v\n", remoteBranch, err)
	}

	pullErr := g.runGitCommand("pull", "origin", remoteBranch, "--allow-unrelated-histories", "--strategy-option=theirs")
	if pullErr != nil {
		// Last resort: make local match remote exactly
		fmt.Printf("Pull failed, resetting to match remote repository...\n")
		if resetErr := g.runGitCommand("reset", "--hard", fmt.Sprintf("origin/%s", remoteBranch)); resetErr != nil {
			fmt.Printf("Warning: Could not sync with remote: %v\n", pullErr)
		} else {
			fmt.Println("✅ Successfully synced with remote repository")
		}
	} else {
		fmt.Println("✅ Successfully pulled existing content")
	}
}

// isAuthError recognizes the usual git credential failures.
func isAuthError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "could not read Username") ||
		strings.Contains(msg, "Authentication failed") ||
		strings.Contains(msg, "Permission denied")
}

func printAuthHelp(repoURL string) {
	fmt.Printf("\n⚠️  Authentication required for: %s\n", repoURL)
	fmt.Println("\nFor GitHub repositories, you have two options:")
	fmt.Println("\n1. Use HTTPS with a Personal Access Token:")
	fmt.Println("   - Create a token at: https://github.com/settings/tokens")
	fmt.Println("   - Use format: https://YOUR_TOKEN@github.com/username/repo.git")
	fmt.Println("\n2. Use SSH (recommended):")
	fmt.Println("   - Setup SSH key: https://docs.github.com/en/authentication/connecting-to-github-with-ssh")
	fmt.Println("   - Use format: git@github.com:username/repo.git")
}

// getRemoteURL gets the current remote origin URL
func (g *GitSync) getRemoteURL() (string, error) {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	cmd.Dir = g.baseDir
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// getRemoteBranches returns list of branches on the remote
func (g *GitSync) getRemoteBranches() ([]string, error) {
	cmd := exec.Command("git", "branch", "-r")
	cmd.Dir = g.baseDir
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var branches []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "HEAD") {
			continue
		}
		if strings.HasPrefix(line, "origin/") {
			branches = append(branches, strings.TrimPrefix(line, "origin/"))
		}
	}
	return branches, nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// hasCommits checks if the repository has any commits
func (g *GitSync) hasCommits() bool {
	cmd := exec.Command("git", "rev-list", "-n", "1", "--all")
	cmd.Dir = g.baseDir
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(output))) > 0
}

// isGitInitialized checks if the directory has git initialized
func (g *GitSync) isGitInitialized() bool {
	gitDir := filepath.Join(g.baseDir, ".git")
	if _, err := os.Stat(gitDir); os.IsNotExist(err) {
		return false
	}
	return true
}

// hasRemote checks if git has a remote configured
func (g *GitSync) hasRemote() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "remote", "-v")
	cmd.Dir = g.baseDir
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(output))) > 0
}

// hasRemoteQuick is hasRemote with a timeout short enough for status lines
// drawn on every frame.
func (g *GitSync) hasRemoteQuick() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "remote", "-v")
	cmd.Dir = g.baseDir
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(output))) > 0
}

// SyncChanges commits everything in the library and pushes. A no-op when
// sync is disabled or nothing changed.
func (g *GitSync) SyncChanges(message string) error {
	if !g.IsEnabled() {
		return nil
	}

	if err := g.runGitCommand("add", "-A"); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}

	hasChanges, err := g.hasChangesToCommit()
	if err != nil {
		return fmt.Errorf("failed to check for changes: %w", err)
	}
	if !hasChanges {
		return nil
	}

	commitMessage := fmt.Sprintf("%s - %s", message, time.Now().Format("2006-01-02 15:04:05"))
	if err := g.runGitCommand("commit", "-m", commitMessage); err != nil {
		return fmt.Errorf("failed to commit changes: %w", err)
	}

	if err := g.runGitCommand("push"); err != nil {
		// The commit survives locally; the user can push later
		return fmt.Errorf("committed locally but failed to push: %w", err)
	}

	return nil
}

// hasChangesToCommit checks if there are staged changes ready to commit
func (g *GitSync) hasChangesToCommit() (bool, error) {
	cmd := exec.Command("git", "diff", "--cached", "--quiet")
	cmd.Dir = g.baseDir
	err := cmd.Run()
	if err != nil {
		// diff --quiet exits 1 when there are differences
		if exitError, ok := err.(*exec.ExitError); ok {
			if exitError.ExitCode() == 1 {
				return true, nil
			}
		}
		return false, err
	}
	return false, nil
}

// runGitCommand executes a git command in the library directory
func (g *GitSync) runGitCommand(args ...string) error {
	return g.runGitCommandWithTimeout(10*time.Second, args...)
}

// runGitCommandWithTimeout executes a git command with custom timeout
func (g *GitSync) runGitCommandWithTimeout(timeout time.Duration, args ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.baseDir

	// Capture both stdout and stderr for better error messages
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("git %s timed out after %v", strings.Join(args, " "), timeout)
		}
		return fmt.Errorf("git %s failed: %s", strings.Join(args, " "), string(output))
	}

	return nil
}

// GetStatus returns a one-line description of the sync state for status bars.
func (g *GitSync) GetStatus() (string, error) {
	if !g.isGitInitialized() {
		return "Git not initialized", nil
	}

	// Fast return for startup - don't block the UI
	if !g.enabled {
		return "Git sync disabled", nil
	}

	return g.getDetailedStatus()
}

// getDetailedStatus performs the actual git status check with timeouts
func (g *GitSync) getDetailedStatus() (string, error) {
	if !g.hasRemoteQuick() {
		return "No remote configured", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "status", "--porcelain", "--branch")
	cmd.Dir = g.baseDir
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "Git status timeout", nil
		}
		return "Git status unknown", err
	}

	statusLines := strings.Split(string(output), "\n")
	if len(statusLines) > 0 {
		branchLine := statusLines[0]
		if strings.Contains(branchLine, "[ahead") {
			return "Changes need to be pushed", nil
		}
		if strings.Contains(branchLine, "[behind") {
			return "Remote has new changes", nil
		}
	}

	if len(statusLines) > 1 && statusLines[1] != "" {
		return "Uncommitted changes", nil
	}

	return "In sync", nil
}

// PullChanges pulls changes from the remote repository with conflict resolution
func (g *GitSync) PullChanges() error {
	if !g.IsEnabled() {
		return nil
	}

	if err := g.runGitCommand("fetch", "origin"); err != nil {
		return fmt.Errorf("failed to fetch from remote: %w", err)
	}

	behind, err := g.isBehindRemote()
	if err != nil {
		return fmt.Errorf("failed to check remote status: %w", err)
	}
	if !behind {
		return nil // Already up to date
	}

	if err := g.runGitCommand("pull", "origin", g.getCurrentBranch()); err != nil {
		return g.handlePullConflict(err)
	}

	return nil
}

// BackgroundSync pulls remote changes on an interval until the context is
// cancelled. Run it in its own goroutine.
func (g *GitSync) BackgroundSync(ctx context.Context, interval time.Duration) {
	if !g.IsEnabled() {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := g.PullChanges(); err != nil {
				// Timeouts are routine on flaky networks, stay quiet
				if !strings.Contains(err.Error(), "timeout") {
					fmt.Printf("Background sync warning: %v\n", err)
				}
			}
		}
	}
}

// getCurrentBranch returns the current git branch name
func (g *GitSync) getCurrentBranch() string {
	cmd := exec.Command("git", "branch", "--show-current")
	cmd.Dir = g.baseDir
	output, err := cmd.Output()
	if err != nil {
		return "master"
	}

	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "master" // Detached HEAD
	}

	return branch
}

// isBehindRemote checks if the local branch is behind its remote counterpart.
func (g *GitSync) isBehindRemote() (bool, error) {
	branch := g.getCurrentBranch()

	remoteCmd := exec.Command("git", "rev-parse", fmt.Sprintf("origin/%s", branch))
	remoteCmd.Dir = g.baseDir
	remoteOutput, err := remoteCmd.Output()
	if err != nil {
		// Remote branch might not exist yet
		return false, nil
	}
	remoteHash := strings.TrimSpace(string(remoteOutput))

	localCmd := exec.Command("git", "rev-parse", "HEAD")
	localCmd.Dir = g.baseDir
	localOutput, err := localCmd.Output()
	if err != nil {
		return false, err
	}
	localHash := strings.TrimSpace(string(localOutput))

	if remoteHash != localHash {
		// Behind means the local head is an ancestor of the remote head
		mergeBaseCmd := exec.Command("git", "merge-base", "--is-ancestor", localHash, remoteHash)
		mergeBaseCmd.Dir = g.baseDir
		err := mergeBaseCmd.Run()
		return err == nil, nil
	}

	return false, nil
}

// handlePullConflict handles pull conflicts by attempting automatic resolution
func (g *GitSync) handlePullConflict(pullErr error) error {
	errStr := pullErr.Error()

	if strings.Contains(errStr, "divergent") || strings.Contains(errStr, "hint: You have divergent branches") {
		fmt.Printf("Detected divergent branches, attempting merge strategy...\n")

		err := g.runGitCommand("pull", "--strategy=recursive", "--strategy-option=theirs", "origin", g.getCurrentBranch())
		if err == nil {
			return nil
		}

		fmt.Printf("Merge failed, attempting rebase...\n")
		err = g.runGitCommand("pull", "--rebase", "origin", g.getCurrentBranch())
		if err == nil {
			return nil
		}

		fmt.Printf("Both merge and rebase failed. Manual intervention may be required.\n")
		return fmt.Errorf("automatic conflict resolution failed: %w", pullErr)
	}

	if strings.Contains(errStr, "conflict") || strings.Contains(errStr, "CONFLICT") {
		fmt.Printf("Detected merge conflicts, preferring remote version for safety...\n")
		return g.resolveConflictsAutomatically()
	}

	return pullErr
}

// resolveConflictsAutomatically resolves merge conflicts by taking the remote
// side of every conflicted file. Form documents are versioned and archived on
// update, so losing the local side never destroys history.
func (g *GitSync) resolveConflictsAutomatically() error {
	cmd := exec.Command("git", "diff", "--name-only", "--diff-filter=U")
	cmd.Dir = g.baseDir
	output, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("failed to get conflicted files: %w", err)
	}

	conflictedFiles := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(conflictedFiles) == 0 || conflictedFiles[0] == "" {
		return fmt.Errorf("no conflicted files found")
	}

	for _, file := range conflictedFiles {
		if file == "" {
			continue
		}

		if err := g.runGitCommand("checkout", "--theirs", file); err != nil {
			return fmt.Errorf("failed to resolve conflict in %s: %w", file, err)
		}
		if err := g.runGitCommand("add", file); err != nil {
			return fmt.Errorf("failed to stage resolved file %s: %w", file, err)
		}
	}

	if err := g.runGitCommand("commit", "--no-edit"); err != nil {
		return fmt.Errorf("failed to complete merge: %w", err)
	}

	fmt.Printf("Successfully resolved conflicts in %d files\n", len(conflictedFiles))
	return nil
}

// FetchChanges fetches the latest changes from remote without merging
func (g *GitSync) FetchChanges() error {
	if !g.IsEnabled() {
		return fmt.Errorf("git sync is not enabled")
	}

	return g.runGitCommandWithTimeout(30*time.Second, "fetch", "origin")
}

// IsBehindRemote checks if local branch is behind remote (public version)
func (g *GitSync) IsBehindRemote() (bool, error) {
	return g.isBehindRemote()
}
