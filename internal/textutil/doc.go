// Package textutil provides small text helpers shared across components.
package textutil
