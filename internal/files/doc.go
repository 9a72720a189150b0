// Package files owns the run's file system side effects: the scratch work
// directory, extracted archive members kept for inspection, and atomic
// writes of the published artifacts.
//
// Example usage:
//
//	manager := files.NewManager(paths, logger)
//	if err := manager.ResetWorkDir(); err != nil {
//	    return err
//	}
//	defer manager.RemoveWorkDir()
//
//	// Extracted members land under work/<label>/
//	err := manager.Store("extract_upto", members)
package files
