// Package demo is the sample application pagewire serve runs: a landing
// page, a small user directory and a cookie session, all rendered through
// Pages so both adapters can be exercised against one backend.
package demo
