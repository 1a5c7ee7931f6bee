// Copyright 2026 jcbmsp. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package templates creates HaloPSA ticket templates from a task sheet.

A task sheet is a CSV file (or a Google Sheets worksheet) with Type, Subtype, Item, Task and TicketType
columns. Rows are grouped into task bundles keyed on 'Type>Subtype>Item' and for each bundle halo-templates
creates a category, a ticket template with the bundle tasks as its to-do list and a ticket rule that applies
the template.

halo-templates supports the following commands:

  - upload, to create the categories, templates and rules for a task sheet
  - ticket-types, to list the HaloPSA ticket types that TicketType values are matched against
  - get, to download a Google Sheets task sheet as a CSV file
  - authorise, to authorise application access to Google Sheets
  - set-secret, to store the HaloPSA client secret in the system keyring
  - version
*/
package templates
