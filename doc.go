/*
Package sdc-app-sheets provisions the booking calendars of a municipal appointment scheduling service from an
opening hours time-table maintained as a Google Sheets worksheet (or a local Excel workbook).

Each group of time-table rows becomes one calendar, owned by the first admin user, and each distinct
opening band of the group becomes a weekly opening hours rule valid for a year from the time of the run.

sdc-app-sheets supports the following commands:

  - authorise, to authorise application access to the Google Sheets worksheet
  - get, to download a Google Sheets worksheet as a TSV file
  - plan, to display (and optionally export as iCalendar) the calendars and opening hours a run would create
  - provision, to create the calendars and opening hours on the scheduling service
  - version, to display the current version
*/
package sheets
