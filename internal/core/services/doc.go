// Package services implements the core harvest logic behind the
// driving ports: the tree walker, the folder-path index, the report
// aggregator and the harvest orchestrator that ties them to the
// review API, the feedback normaliser and the checkpoint store.
package services
