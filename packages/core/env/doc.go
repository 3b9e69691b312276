// Package env supplies the values behind {{env.NAME}} placeholders in
// fixture routes.
//
// Values come from dotenv files loaded with Vars.LoadFile and fall back to
// the process environment. A nil *Vars reads the process environment only.
package env
