// Package models defines the core domain models for splitsms.
//
// # Model Overview
//
//   - Expense: a shared transaction, either auto-detected from a payment
//     message or entered manually
//   - Message: a raw payment notification (SMS or typed text) kept around
//     whether or not it parsed into an expense
//   - Friend: a member of the participant roster
//   - Balance: one person's signed net position, derived from expenses
//   - Settlement: a directed payment that reduces net balances toward zero
//   - User: a registered account for the HTTP API
//
// # Design Principles
//
//  1. **Names as identity**: expenses and balances reference people by
//     display name. The literal "Me" identifies the account owner and is
//     always a virtual roster member, even when absent from the stored
//     friend list.
//  2. **Derived data stays derived**: Balance and Settlement are never
//     persisted; they are recomputed from the expense list on every request.
//  3. **Expenses are immutable**: no in-place edits of amount or direction;
//     callers delete and re-create instead.
package models
