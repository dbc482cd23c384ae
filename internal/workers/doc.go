// Package workers picks worker counts for parallel tasks based on the CPUs
// available to the process.
package workers
